package api

import (
	"github.com/ayo6706/terminal-country-switch/internal/api/handler"
	"github.com/ayo6706/terminal-country-switch/internal/api/middleware"
	"github.com/ayo6706/terminal-country-switch/internal/api/spec"
	"github.com/ayo6706/terminal-country-switch/internal/config"
	"github.com/ayo6706/terminal-country-switch/internal/observability"
	"github.com/ayo6706/terminal-country-switch/internal/service"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	cfg        *config.Config
	logger     *zap.Logger
	countrySvc *service.CountryUpdateService
}

func NewRouter(cfg *config.Config, logger *zap.Logger, countrySvc *service.CountryUpdateService) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{cfg: cfg, logger: logger, countrySvc: countrySvc}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	healthHandler := handler.NewHealthHandler()
	countryHandler := handler.NewCountryHandler(api.countrySvc)

	r.Get("/health", healthHandler.Health)
	r.Get("/countries", countryHandler.ListCountries)
	r.Handle("/metrics", observability.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Group(func(r chi.Router) {
		if api.cfg.OperatorJWTSecret != "" {
			r.Use(middleware.OperatorAuth([]byte(api.cfg.OperatorJWTSecret), api.cfg.OperatorJWTIssuer, api.cfg.OperatorJWTAudience))
		}
		r.Use(middleware.UpdateRateLimiter(api.cfg.RateLimitRPS))

		r.Post("/update_country", countryHandler.UpdateCountry)
	})

	return r
}
