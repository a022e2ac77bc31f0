// config — загрузка конфигурации courtside (stub-бэкенд и CLI).
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// ENV всегда накладывается поверх файла.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pribylovaa/courtside/internal/models"
)

type Config struct {
	Env      string                   `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig               `yaml:"http"`
	API      APIConfig                `yaml:"api"`
	Limits   LimitsConfig             `yaml:"limits"`
	Auth     AuthConfig               `yaml:"auth"`
	S3       S3Config                 `yaml:"s3"`
	Stub     StubConfig               `yaml:"stub"`
	Routes   map[string]models.Routes `yaml:"routes"`
	Timeouts TimeoutConfig            `yaml:"timeouts"`
}

// HTTPConfig — адрес stub-бэкенда.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50070"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// APIConfig — удалённый REST-бэкенд для клиента.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://127.0.0.1:50070"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	// Token — bearer-токен CLI; пусто -> токен выпускается из auth.jwt_secret.
	Token string `yaml:"token" env:"API_TOKEN"`
}

// LimitsConfig — размер страницы курсорной выдачи.
type LimitsConfig struct {
	Default int `yaml:"default" env:"LIMITS_DEFAULT" env-default:"20"`
	Max     int `yaml:"max" env:"LIMITS_MAX" env-default:"100"`
}

// AuthConfig — проверка bearer JWT в stub-бэкенде и выпуск dev-токенов.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:"dev-secret-change-me"`
	Issuer    string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"courtside"`
	AdminRole string        `yaml:"admin_role" env:"AUTH_ADMIN_ROLE" env-default:"admin"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"1h"`
	Leeway    time.Duration `yaml:"leeway" env:"AUTH_LEEWAY" env-default:"30s"`
}

// S3Config — хранилище медиа (MinIO/S3). Пустой endpoint отключает хранилище.
type S3Config struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET" env-default:"courtside"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// Enabled — задан ли endpoint хранилища.
func (s S3Config) Enabled() bool { return s.Endpoint != "" }

// StubConfig — параметры stub-бэкенда.
type StubConfig struct {
	// Storage — "memory" или "postgres".
	Storage string `yaml:"storage" env:"STUB_STORAGE" env-default:"memory"`
	// DatabaseURL — DSN PostgreSQL, обязателен для storage: postgres.
	DatabaseURL string `yaml:"database_url" env:"STUB_DATABASE_URL"`
	// SeedPath — JSON вида {"Run": [{...}], ...}; пусто -> пустое хранилище.
	SeedPath string `yaml:"seed_path" env:"STUB_SEED_PATH"`
}

const (
	StubStorageMemory   = "memory"
	StubStoragePostgres = "postgres"
)

// TimeoutConfig — таймаут обработки запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Limits.Default <= 0 {
		c.Limits.Default = 20
	}

	if c.Limits.Max <= 0 {
		c.Limits.Max = 100
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default (%d) must not exceed limits.max (%d)", c.Limits.Default, c.Limits.Max)
	}

	if p, err := strconv.Atoi(c.HTTP.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("http.port must be a valid TCP port (1..65535)")
	}

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api.base_url must be an absolute http(s) URL")
		}
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.S3.Enabled() && c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
	}

	switch c.Stub.Storage {
	case "", StubStorageMemory:
	case StubStoragePostgres:
		if c.Stub.DatabaseURL == "" {
			return fmt.Errorf("stub.database_url is required for stub.storage %q", StubStoragePostgres)
		}
	default:
		return fmt.Errorf("stub.storage must be %q or %q", StubStorageMemory, StubStoragePostgres)
	}

	for name := range c.Routes {
		if _, ok := models.Lookup(name); !ok {
			return fmt.Errorf("routes: unknown resource %q", name)
		}
	}

	return nil
}
