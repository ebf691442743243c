package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"SHOPFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL    string `envconfig:"SHOPFRONT_API_BASE_URL"`
	DevBaseURL string `envconfig:"SHOPFRONT_API_DEV_BASE_URL" default:"http://localhost:4000/"`
}

// ResolveBaseURL picks the backend root for the current environment: the dev
// URL in development, the configured URL otherwise.
func (a APIConfig) ResolveBaseURL(app AppConfig) (string, error) {
	if app.IsDev() {
		return a.DevBaseURL, nil
	}
	if strings.TrimSpace(a.BaseURL) == "" {
		return "", fmt.Errorf("%s is required outside development", EnvAPIBaseURL)
	}
	return a.BaseURL, nil
}

type StorageConfig struct {
	Path     string `envconfig:"SHOPFRONT_STORAGE_PATH" default:"shopfront.db"`
	InMemory bool   `envconfig:"SHOPFRONT_STORAGE_IN_MEMORY" default:"false"`
}
