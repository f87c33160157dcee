package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "integrationhub/internal/shared/config"
	"integrationhub/internal/shared/constants"
	apperrors "integrationhub/internal/shared/errors"
)

const envPrefix = "INTEGRATIONHUB"

const (
	DefaultCRMTokenURL     = "https://services.leadconnectorhq.com/oauth/token"
	DefaultCRMAPIBaseURL   = "https://services.leadconnectorhq.com"
	DefaultWafeqAuthorize  = "https://app.wafeq.com/oauth/authorize/"
	DefaultWafeqTokenURL   = "https://app.wafeq.com/oauth/token/"
	DefaultWafeqRevokeURL  = "https://app.wafeq.com/oauth/token/revoke/"
	DefaultWafeqProbeURL   = "https://api.wafeq.com/v1/organization"
	DefaultHTTPTimeoutSecs = 15
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis" yaml:"redis"`
	HTTPClient sharedConfig.HTTPClientConfig `mapstructure:"http_client" yaml:"http_client"`
	OAuth      sharedConfig.OAuthStateConfig `mapstructure:"oauth" yaml:"oauth"`
	CRM        sharedConfig.CRMConfig        `mapstructure:"crm" yaml:"crm"`
	Wafeq      sharedConfig.WafeqConfig      `mapstructure:"wafeq" yaml:"wafeq"`
	Admin      sharedConfig.AdminConfig      `mapstructure:"admin" yaml:"admin"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// legacyEnv lists the unprefixed variable names accepted for each key, in priority order.
var legacyEnv = map[string][]string{
	"server.port":            {"PORT"},
	"database.dsn":           {"DATABASE_URL"},
	"oauth.state_secret":     {"OAUTH_STATE_SECRET"},
	"crm.client_id":          {"GHL_CLIENT_ID", "HIGHLEVEL_CLIENT_ID"},
	"crm.client_secret":      {"GHL_CLIENT_SECRET", "HIGHLEVEL_CLIENT_SECRET"},
	"crm.redirect_uri":       {"GHL_REDIRECT_URI"},
	"crm.token_url":          {"GHL_TOKEN_URL"},
	"crm.webhook_public_key": {"GHL_WEBHOOK_PUBLIC_KEY", "HIGHLEVEL_WEBHOOK_PUBLIC_KEY"},
	"crm.private_token":      {"HIGHLEVEL_PIT", "GHL_PIT"},
	"wafeq.client_id":        {"WAFEQ_CLIENT_ID"},
	"wafeq.client_secret":    {"WAFEQ_CLIENT_SECRET"},
	"wafeq.redirect_uri":     {"WAFEQ_REDIRECT_URI"},
	"wafeq.scope":            {"WAFEQ_SCOPE"},
	"wafeq.authorize_url":    {"WAFEQ_AUTHORIZE_URL"},
	"wafeq.token_url":        {"WAFEQ_TOKEN_URL"},
	"wafeq.revoke_url":       {"WAFEQ_REVOKE_URL"},
	"wafeq.probe_url":        {"WAFEQ_PROBE_URL"},
}

// Load reads configs/config.yaml (or configPath when given), applies environment
// overrides and validates the result. A missing config file is not an error.
func Load(configPath, env string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.driver", sharedConfig.DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "integrationhub")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis is optional; an empty host disables rate limiting
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("http_client.timeout_seconds", DefaultHTTPTimeoutSecs)

	v.SetDefault("oauth.state_secret", "")

	v.SetDefault("crm.client_id", "")
	v.SetDefault("crm.client_secret", "")
	v.SetDefault("crm.redirect_uri", "")
	v.SetDefault("crm.token_url", DefaultCRMTokenURL)
	v.SetDefault("crm.api_base_url", DefaultCRMAPIBaseURL)
	v.SetDefault("crm.webhook_public_key", "")
	v.SetDefault("crm.private_token", "")

	v.SetDefault("wafeq.client_id", "")
	v.SetDefault("wafeq.client_secret", "")
	v.SetDefault("wafeq.redirect_uri", "")
	v.SetDefault("wafeq.scope", "")
	v.SetDefault("wafeq.authorize_url", DefaultWafeqAuthorize)
	v.SetDefault("wafeq.token_url", DefaultWafeqTokenURL)
	v.SetDefault("wafeq.revoke_url", DefaultWafeqRevokeURL)
	v.SetDefault("wafeq.probe_url", DefaultWafeqProbeURL)

	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.issuer", "integrationhub")

	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window_seconds", 60)
}

func bindLegacyEnv(v *viper.Viper) error {
	for key, names := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		input := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(input...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// normalize trims credentials so that whitespace-only values count as unset.
func (c *Config) normalize() {
	for _, s := range []*string{
		&c.OAuth.StateSecret,
		&c.CRM.ClientID, &c.CRM.ClientSecret, &c.CRM.RedirectURI,
		&c.CRM.WebhookPublicKey, &c.CRM.PrivateToken,
		&c.Wafeq.ClientID, &c.Wafeq.ClientSecret, &c.Wafeq.RedirectURI, &c.Wafeq.Scope,
		&c.Database.DSN,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// FieldError is one failed configuration rule.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// ValidationError reports every invalid configuration field at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s (%s=%s)", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
		}
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks field rules and that each OAuth provider is configured as a unit.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(crmUnitValidation, sharedConfig.CRMConfig{})
	v.RegisterStructValidation(wafeqUnitValidation, sharedConfig.WafeqConfig{})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field: strings.TrimPrefix(fe.Namespace(), "Config."),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

func crmUnitValidation(sl validator.StructLevel) {
	crm := sl.Current().Interface().(sharedConfig.CRMConfig)
	reportIncompleteUnit(sl, map[string]string{
		"client_id":     crm.ClientID,
		"client_secret": crm.ClientSecret,
		"redirect_uri":  crm.RedirectURI,
	})
}

func wafeqUnitValidation(sl validator.StructLevel) {
	wafeq := sl.Current().Interface().(sharedConfig.WafeqConfig)
	reportIncompleteUnit(sl, map[string]string{
		"client_id":     wafeq.ClientID,
		"client_secret": wafeq.ClientSecret,
		"redirect_uri":  wafeq.RedirectURI,
	})
}

var unitFieldNames = map[string]string{
	"client_id":     "ClientID",
	"client_secret": "ClientSecret",
	"redirect_uri":  "RedirectURI",
}

// reportIncompleteUnit flags the empty credentials of a provider that is partially configured.
func reportIncompleteUnit(sl validator.StructLevel, fields map[string]string) {
	set := 0
	for _, value := range fields {
		if value != "" {
			set++
		}
	}
	if set == 0 || set == len(fields) {
		return
	}
	for _, name := range []string{"client_id", "client_secret", "redirect_uri"} {
		if fields[name] == "" {
			sl.ReportError(fields[name], name, unitFieldNames[name], "required_with_provider", "")
		}
	}
}

// WafeqOAuth returns the accounting provider settings, or a configuration error
// when the OAuth application is not configured.
func (c *Config) WafeqOAuth() (sharedConfig.OAuthProviderSettings, error) {
	w := c.Wafeq
	if w.ClientID == "" || w.ClientSecret == "" || w.RedirectURI == "" || w.AuthorizeURL == "" {
		return sharedConfig.OAuthProviderSettings{}, apperrors.NewConfigurationError(constants.MsgMissingWafeqEnv)
	}
	return sharedConfig.OAuthProviderSettings{
		ClientID:     w.ClientID,
		ClientSecret: w.ClientSecret,
		RedirectURI:  w.RedirectURI,
		Scope:        w.Scope,
		AuthorizeURL: w.AuthorizeURL,
		TokenURL:     w.TokenURL,
		RevokeURL:    w.RevokeURL,
	}, nil
}

// CRMOAuth returns the CRM provider settings, or a configuration error when the
// OAuth application is not configured.
func (c *Config) CRMOAuth() (sharedConfig.OAuthProviderSettings, error) {
	crm := c.CRM
	if crm.ClientID == "" || crm.ClientSecret == "" || crm.RedirectURI == "" {
		return sharedConfig.OAuthProviderSettings{}, apperrors.NewConfigurationError(constants.MsgMissingCRMEnv)
	}
	return sharedConfig.OAuthProviderSettings{
		ClientID:     crm.ClientID,
		ClientSecret: crm.ClientSecret,
		RedirectURI:  crm.RedirectURI,
		TokenURL:     crm.TokenURL,
	}, nil
}
