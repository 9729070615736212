package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable this module reads.
	EnvPrefix = "storefront"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Redis   RedisConfig
	Session SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig drives outbound request behavior of the resilient client.
type APIConfig struct {
	BaseURL      string        `envconfig:"STOREFRONT_API_URL"`
	AssetBaseURL string        `envconfig:"STOREFRONT_ASSET_URL"`
	Timeout      time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
	GetRetries   int           `envconfig:"STOREFRONT_API_GET_RETRIES" default:"1"`
}

const (
	devProxyBaseURL     = "/api/v1"
	localAPIBaseURL     = "http://localhost:5000/api/v1"
	localAssetBaseURL   = "http://localhost:5000"
	devProxyAssetPrefix = ""
)

// ResolveBaseURL applies the override → dev proxy → local fallback chain.
func (a APIConfig) ResolveBaseURL(dev bool) string {
	if url := strings.TrimSpace(a.BaseURL); url != "" {
		return url
	}
	if dev {
		return devProxyBaseURL
	}
	return localAPIBaseURL
}

// ResolveAssetBaseURL mirrors ResolveBaseURL for static asset paths.
func (a APIConfig) ResolveAssetBaseURL(dev bool) string {
	if url := strings.TrimSpace(a.AssetBaseURL); url != "" {
		return url
	}
	if dev {
		return devProxyAssetPrefix
	}
	return localAssetBaseURL
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	// TTL bounds how long persisted session fields outlive their last write.
	// Zero keeps them until an explicit logout.
	TTL time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"0"`
}
