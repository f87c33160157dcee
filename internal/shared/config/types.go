package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	Mode    string `mapstructure:"mode" yaml:"mode" validate:"omitempty,oneof=debug release test development production"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	// TrustedProxies lists the proxy IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the peer address is always the client address.
	TrustedProxies []string `mapstructure:"trusted_proxies" yaml:"trusted_proxies" validate:"omitempty,dive,cidr|ip"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=mysql postgres sqlite"`
	DSN             string `mapstructure:"dsn" yaml:"dsn" secret:"true"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password" secret:"true"`
	Database        string `mapstructure:"database" yaml:"database" validate:"required_without=DSN"`
	SSLMode         string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// GetDSN returns the explicit DSN when set, otherwise one assembled for the driver.
func (d *DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case DriverPostgres:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	case DriverSQLite:
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"password" secret:"true"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a Redis server is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type HTTPClientConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" validate:"min=0"`
}

func (h *HTTPClientConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

type OAuthStateConfig struct {
	StateSecret string `mapstructure:"state_secret" yaml:"state_secret" secret:"true"`
}

// CRMConfig holds the HighLevel OAuth application, webhook key and SDK credentials.
// ClientID, ClientSecret and RedirectURI are set together or not at all.
type CRMConfig struct {
	ClientID         string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret     string `mapstructure:"client_secret" yaml:"client_secret" secret:"true"`
	RedirectURI      string `mapstructure:"redirect_uri" yaml:"redirect_uri" validate:"omitempty,url"`
	TokenURL         string `mapstructure:"token_url" yaml:"token_url" validate:"required,url"`
	APIBaseURL       string `mapstructure:"api_base_url" yaml:"api_base_url" validate:"required,url"`
	WebhookPublicKey string `mapstructure:"webhook_public_key" yaml:"webhook_public_key"`
	PrivateToken     string `mapstructure:"private_token" yaml:"private_token" secret:"true"`
}

// WafeqConfig holds the accounting platform OAuth application and endpoints.
// ClientID, ClientSecret and RedirectURI are set together or not at all.
type WafeqConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret" secret:"true"`
	RedirectURI  string `mapstructure:"redirect_uri" yaml:"redirect_uri" validate:"omitempty,url"`
	Scope        string `mapstructure:"scope" yaml:"scope"`
	AuthorizeURL string `mapstructure:"authorize_url" yaml:"authorize_url" validate:"required,url"`
	TokenURL     string `mapstructure:"token_url" yaml:"token_url" validate:"required,url"`
	RevokeURL    string `mapstructure:"revoke_url" yaml:"revoke_url" validate:"required,url"`
	ProbeURL     string `mapstructure:"probe_url" yaml:"probe_url" validate:"required,url"`
}

type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret" secret:"true"`
	Issuer    string `mapstructure:"issuer" yaml:"issuer"`
}

// Enabled reports whether operator endpoints require a bearer token.
func (a *AdminConfig) Enabled() bool {
	return a.JWTSecret != ""
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests" yaml:"requests" validate:"min=0"`
	WindowSeconds int `mapstructure:"window_seconds" yaml:"window_seconds" validate:"min=0"`
}

func (r *RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// OAuthProviderSettings is the resolved, complete configuration for one OAuth provider.
type OAuthProviderSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	AuthorizeURL string
	TokenURL     string
	RevokeURL    string
}
