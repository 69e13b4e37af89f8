package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPartnerPortalURL = "https://webtest.chargeanywhere.com/PartnerPortalAPI/PartnerPortalAPI.asmx?WSDL"
	defaultExportURL        = "https://webtest.chargeanywhere.com/APIs/Export/TransactionExport"
	defaultCloseBatchURL    = "https://webtest.chargeanywhere.com/APIs/Transaction/CloseBatch"
)

// Config holds all runtime configuration derived from environment variables.
// It is built once at startup and never mutated afterwards.
type Config struct {
	HTTPPort string
	LogLevel string

	ChannelName  string
	Username     string
	Password     string
	ClientKey    string
	ClientSecret string

	PartnerPortalURL  string
	ExportURL         string
	CloseBatchURL     string
	ExportVersion     string
	CloseBatchVersion string
	VendorTimeout     time.Duration

	RateLimitRPS        int
	OperatorJWTSecret   string
	OperatorJWTIssuer   string
	OperatorJWTAudience string
}

// Credentials returns the Partner Portal channel credentials.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{
		ChannelName: c.ChannelName,
		Username:    c.Username,
		Password:    c.Password,
	}
}

// Placeholders lists the required keys still carrying template values such as
// "your_password" copied from an example env file.
func (c *Config) Placeholders() []string {
	var out []string
	for _, kv := range c.required() {
		if strings.HasPrefix(strings.ToLower(kv[1]), "your_") {
			out = append(out, kv[0])
		}
	}
	return out
}

func (c *Config) required() [][2]string {
	return [][2]string{
		{"CHANNEL_NAME", c.ChannelName},
		{"USERNAME", c.Username},
		{"PASSWORD", c.Password},
		{"CLIENT_KEY", c.ClientKey},
		{"CLIENT_SECRET", c.ClientSecret},
	}
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "CAPORTAL_PORT", "PORT")
	bindEnv(v, "log_level", "CAPORTAL_LOG_LEVEL", "LOG_LEVEL")
	bindEnv(v, "channel_name", "CAPORTAL_CHANNEL_NAME", "CHANNEL_NAME")
	bindEnv(v, "username", "CAPORTAL_USERNAME", "USERNAME")
	bindEnv(v, "password", "CAPORTAL_PASSWORD", "PASSWORD")
	bindEnv(v, "client_key", "CAPORTAL_CLIENT_KEY", "CLIENT_KEY")
	bindEnv(v, "client_secret", "CAPORTAL_CLIENT_SECRET", "CLIENT_SECRET")
	bindEnv(v, "partner_portal_url", "CAPORTAL_PARTNER_PORTAL_URL", "PARTNER_PORTAL_URL")
	bindEnv(v, "export_url", "CAPORTAL_EXPORT_URL", "EXPORT_URL")
	bindEnv(v, "close_batch_url", "CAPORTAL_CLOSE_BATCH_URL", "CLOSE_BATCH_URL")
	bindEnv(v, "export_version", "CAPORTAL_EXPORT_VERSION", "EXPORT_VERSION")
	bindEnv(v, "close_batch_version", "CAPORTAL_CLOSE_BATCH_VERSION", "CLOSE_BATCH_VERSION")
	bindEnv(v, "vendor_timeout", "CAPORTAL_VENDOR_TIMEOUT", "VENDOR_TIMEOUT")
	bindEnv(v, "rate_limit_rps", "CAPORTAL_RATE_LIMIT_RPS", "RATE_LIMIT_RPS")
	bindEnv(v, "operator_jwt_secret", "CAPORTAL_OPERATOR_JWT_SECRET", "OPERATOR_JWT_SECRET")
	bindEnv(v, "operator_jwt_issuer", "CAPORTAL_OPERATOR_JWT_ISSUER", "OPERATOR_JWT_ISSUER")
	bindEnv(v, "operator_jwt_audience", "CAPORTAL_OPERATOR_JWT_AUDIENCE", "OPERATOR_JWT_AUDIENCE")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("partner_portal_url", defaultPartnerPortalURL)
	v.SetDefault("export_url", defaultExportURL)
	v.SetDefault("close_batch_url", defaultCloseBatchURL)
	v.SetDefault("export_version", "1.0")
	v.SetDefault("close_batch_version", "1.0")
	v.SetDefault("vendor_timeout", "30s")
	v.SetDefault("rate_limit_rps", 5)
	v.SetDefault("operator_jwt_secret", "")
	v.SetDefault("operator_jwt_issuer", "")
	v.SetDefault("operator_jwt_audience", "")

	timeout, err := time.ParseDuration(v.GetString("vendor_timeout"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid VENDOR_TIMEOUT: %v", domain.ErrConfiguration, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: VENDOR_TIMEOUT must be positive", domain.ErrConfiguration)
	}

	cfg := &Config{
		HTTPPort:            v.GetString("port"),
		LogLevel:            v.GetString("log_level"),
		ChannelName:         strings.TrimSpace(v.GetString("channel_name")),
		Username:            strings.TrimSpace(v.GetString("username")),
		Password:            v.GetString("password"),
		ClientKey:           strings.TrimSpace(v.GetString("client_key")),
		ClientSecret:        v.GetString("client_secret"),
		PartnerPortalURL:    v.GetString("partner_portal_url"),
		ExportURL:           v.GetString("export_url"),
		CloseBatchURL:       v.GetString("close_batch_url"),
		ExportVersion:       v.GetString("export_version"),
		CloseBatchVersion:   v.GetString("close_batch_version"),
		VendorTimeout:       timeout,
		RateLimitRPS:        max(v.GetInt("rate_limit_rps"), 1),
		OperatorJWTSecret:   v.GetString("operator_jwt_secret"),
		OperatorJWTIssuer:   strings.TrimSpace(v.GetString("operator_jwt_issuer")),
		OperatorJWTAudience: strings.TrimSpace(v.GetString("operator_jwt_audience")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing required setting as a configuration error.
func (c *Config) Validate() error {
	for _, kv := range c.required() {
		if strings.TrimSpace(kv[1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrConfiguration, kv[0])
		}
	}
	endpoints := [][2]string{
		{"PARTNER_PORTAL_URL", c.PartnerPortalURL},
		{"EXPORT_URL", c.ExportURL},
		{"CLOSE_BATCH_URL", c.CloseBatchURL},
	}
	for _, kv := range endpoints {
		if strings.TrimSpace(kv[1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrConfiguration, kv[0])
		}
	}
	if c.OperatorJWTSecret != "" && len(c.OperatorJWTSecret) < 32 {
		return fmt.Errorf("%w: OPERATOR_JWT_SECRET must be at least 32 characters", domain.ErrConfiguration)
	}
	return nil
}

// bindEnv binds key to names in priority order: viper takes the first one that
// is set and non-empty.
func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
