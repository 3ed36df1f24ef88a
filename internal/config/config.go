package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=stockscan port=5432 sslmode=disable"

// Unregistered prefix policies for packaging creation.
const (
	PrefixInherit = "inherit"
	PrefixReject  = "reject"
)

type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`

	HTTP struct {
		Port        string `mapstructure:"port"`
		CORSOrigins string `mapstructure:"cors_origins"`
	} `mapstructure:"http"`

	Database struct {
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	Catalog struct {
		UniqueBrandNames   bool   `mapstructure:"unique_brand_names"`
		UnregisteredPrefix string `mapstructure:"unregistered_prefix"`
	} `mapstructure:"catalog"`
}

// env names kept stable for existing deployments
var envBindings = map[string]string{
	"app.env":                     "APP_ENV",
	"http.port":                   "HTTP_PORT",
	"http.cors_origins":           "CORS_ALLOWED_ORIGINS",
	"database.dsn":                "DATABASE_DSN",
	"database.auto_migrate":       "DATABASE_AUTO_MIGRATE",
	"metrics.enabled":             "METRICS_ENABLED",
	"catalog.unique_brand_names":  "CATALOG_UNIQUE_BRAND_NAMES",
	"catalog.unregistered_prefix": "CATALOG_UNREGISTERED_PREFIX",
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment variables. Later sources win.
func Load(path string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("app.env", "prod")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.cors_origins", "http://localhost:5173")
	v.SetDefault("database.dsn", defaultDSN)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("catalog.unique_brand_names", true)
	v.SetDefault("catalog.unregistered_prefix", PrefixInherit)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c.Catalog.UnregisteredPrefix = strings.ToLower(strings.TrimSpace(c.Catalog.UnregisteredPrefix))
	switch c.Catalog.UnregisteredPrefix {
	case PrefixInherit, PrefixReject:
	default:
		return nil, fmt.Errorf("config: catalog.unregistered_prefix must be %q or %q, got %q",
			PrefixInherit, PrefixReject, c.Catalog.UnregisteredPrefix)
	}

	return &c, nil
}

// Warnings lists settings that are fine for development but not for production.
func (c *Config) Warnings() []string {
	var out []string
	if c.Database.DSN == defaultDSN {
		out = append(out, "DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if c.HTTP.CORSOrigins == "http://localhost:5173" {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	return out
}

// CORSOriginList splits the comma separated origins and trims each entry.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.HTTP.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
