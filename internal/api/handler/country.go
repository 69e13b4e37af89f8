package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"github.com/ayo6706/terminal-country-switch/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxFormBytes = 64 << 10

type CountryHandler struct {
	svc      *service.CountryUpdateService
	validate *validator.Validate
}

func NewCountryHandler(svc *service.CountryUpdateService) *CountryHandler {
	return &CountryHandler{svc: svc, validate: newValidator()}
}

type updateCountryInput struct {
	MerchantID string `json:"merchant_id" validate:"required,max=64,excludesall=<>&'\""`
	TerminalID string `json:"terminal_id" validate:"required,max=64,excludesall=<>&'\""`
	Country    string `json:"country" validate:"country"`
}

type updateCountryResponse struct {
	Success         bool   `json:"success"`
	MerchantID      string `json:"merchant_id"`
	TerminalID      string `json:"terminal_id"`
	Country         string `json:"country"`
	ResponseCode    string `json:"response_code"`
	ResponseText    string `json:"response_text"`
	IsSuccess       bool   `json:"is_success"`
	BatchClosed     *bool  `json:"batch_closed,omitempty"`
	BatchCloseError string `json:"batch_close_error,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		_, ok := domain.LookupCountry(fl.Field().String())
		return ok
	})
	return v
}

// ListCountries returns the selectable country table.
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string][]domain.Country{"countries": domain.Countries()})
}

// UpdateCountry accepts merchant_id, terminal_id and country either as a form
// or as a JSON body.
func (h *CountryHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	input, err := decodeUpdateCountryInput(w, r)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		respondFailure(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	country, _ := domain.LookupCountry(input.Country)
	outcome, err := h.svc.UpdateCountry(r.Context(), models.UpdateRequest{
		MerchantID:  input.MerchantID,
		TerminalID:  input.TerminalID,
		CountryCode: country.Code,
	})
	if err != nil {
		status, message := mapWorkflowError(err)
		zap.L().Error("country update failed",
			zap.String("merchant_id", input.MerchantID),
			zap.Int("status", status),
			zap.Error(err),
		)
		respondFailure(w, status, message)
		return
	}

	resp := updateCountryResponse{
		Success:      true,
		MerchantID:   input.MerchantID,
		TerminalID:   input.TerminalID,
		Country:      country.Name,
		ResponseCode: outcome.Result.ResponseCode,
		ResponseText: outcome.Result.ResponseText,
		IsSuccess:    outcome.Result.ResponseCode == domain.ResponseCodeSuccess,
	}
	if outcome.BatchCloseAttempted {
		closed := outcome.BatchClosed
		resp.BatchClosed = &closed
		resp.BatchCloseError = outcome.BatchCloseError
	}
	RespondJSON(w, http.StatusOK, resp)
}

func decodeUpdateCountryInput(w http.ResponseWriter, r *http.Request) (updateCountryInput, error) {
	var input updateCountryInput
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return input, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.MerchantID = r.PostForm.Get("merchant_id")
		input.TerminalID = r.PostForm.Get("terminal_id")
		input.Country = r.PostForm.Get("country")
	}

	input.MerchantID = strings.TrimSpace(input.MerchantID)
	input.TerminalID = strings.TrimSpace(input.TerminalID)
	input.Country = strings.TrimSpace(input.Country)
	return input, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request"
	}

	fe := fieldErrs[0]
	label := map[string]string{
		"merchant_id": "Merchant ID",
		"terminal_id": "Terminal ID",
	}[fe.Field()]

	switch {
	case fe.Field() == "country":
		return "Invalid country selection"
	case fe.Tag() == "required":
		return label + " is required"
	case fe.Tag() == "max":
		return label + " is too long"
	default:
		return label + " contains invalid characters"
	}
}

func mapWorkflowError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusInternalServerError, "API request failed: " + err.Error()
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, "Configuration error: " + err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Unexpected error: " + err.Error()
	}
}
