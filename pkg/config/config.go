package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	CORS    CORSConfig
	Upload  UploadConfig
	Pricing PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRINTFORGE_APP_ENV" default:"dev"`
	Port         string `envconfig:"PRINTFORGE_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"PRINTFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Root string `envconfig:"PRINTFORGE_STORAGE_ROOT" default:"./data"`
}

// CartDir is the staging area for not-yet-launched items.
func (s StorageConfig) CartDir() string {
	return filepath.Join(s.Root, "cart")
}

// ProductionDir holds one directory per launched batch.
func (s StorageConfig) ProductionDir() string {
	return filepath.Join(s.Root, "production")
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PRINTFORGE_CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"PRINTFORGE_MAX_UPLOAD_MB" default:"64"`
}

type PricingConfig struct {
	// MarginEUR is the flat handling fee added to every quote, parsed as a
	// decimal string so cents survive intact.
	MarginEUR string `envconfig:"PRINTFORGE_PRICING_MARGIN_EUR" default:"2.00"`
}
