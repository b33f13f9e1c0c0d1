package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/leminhha/salespipe/internal/database"
	"github.com/leminhha/salespipe/internal/permissions"
)

// Config represents the runtime configuration for the salespipe backend.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Policy   PolicyConfig   `mapstructure:"policy"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	Development bool   `mapstructure:"development"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// AuthConfig configures session token issuance and the session cookie.
type AuthConfig struct {
	TokenSecret string          `mapstructure:"token_secret"`
	Issuer      string          `mapstructure:"issuer"`
	SessionTTL  time.Duration   `mapstructure:"session_ttl"`
	Cookie      CookieConfig    `mapstructure:"cookie"`
	Bootstrap   BootstrapConfig `mapstructure:"bootstrap"`
}

// BootstrapConfig optionally provisions an initial SUPERADMIN account at
// startup. Intended for development and first deploys; leave empty in steady
// state.
type BootstrapConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// CookieConfig controls session cookie attributes.
type CookieConfig struct {
	Domain string `mapstructure:"domain"`
	Secure bool   `mapstructure:"secure"`
}

// PolicyConfig names explicit authorization policy choices.
type PolicyConfig struct {
	// IdentityManagement selects who may manage users and roles:
	// "superadmin_only" (default) or "shared_with_admin".
	IdentityManagement string `mapstructure:"identity_management"`
}

// LoadConfig reads configuration from ./config plus any extra paths, with
// SALESPIPE_* environment variables taking precedence.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("SALESPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if _, err := permissions.ParseIdentityPolicy(config.Policy.IdentityManagement); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &config, nil
}

// IdentityPolicy returns the parsed identity-management policy.
func (c *Config) IdentityPolicy() permissions.IdentityPolicy {
	policy, err := permissions.ParseIdentityPolicy(c.Policy.IdentityManagement)
	if err != nil {
		return permissions.IdentityPolicySuperAdminOnly
	}
	return policy
}

// DatabaseOptions maps config onto the database package's options.
func (c *Config) DatabaseOptions() database.Config {
	return database.Config{
		Driver:   c.Database.Driver,
		Path:     c.Database.Path,
		DSN:      c.Database.DSN,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.development", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/salespipe.sqlite")

	v.SetDefault("auth.issuer", "salespipe")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.cookie.secure", true)

	v.SetDefault("policy.identity_management", "superadmin_only")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
