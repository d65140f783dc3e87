package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App   AppSettings
	Log   LogSettings
	Atol  AtolSettings
	Batch BatchSettings
	Audit AuditSettings
}

type AppSettings struct {
	Name        string `env:"APP_NAME" envDefault:"atolctl"`
	Environment string `env:"APP_ENV" envDefault:"local"`
}

type LogSettings struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AtolSettings configures the fiscal service client.
type AtolSettings struct {
	Host             string        `env:"ATOL_HOST" envDefault:"https://online.atol.ru"`
	APIVersion       string        `env:"ATOL_API_VERSION"`
	Protocol         string        `env:"ATOL_PROTOCOL" envDefault:"v4"`
	Login            string        `env:"ATOL_LOGIN"`
	Password         string        `env:"ATOL_PASSWORD"`
	GroupCode        string        `env:"ATOL_GROUP_CODE"`
	TokenTTL         time.Duration `env:"ATOL_TOKEN_TTL" envDefault:"24h"`
	Timeout          time.Duration `env:"ATOL_TIMEOUT" envDefault:"30s"`
	ErroredUUID      string        `env:"ATOL_ERRORED_UUID" envDefault:"default"`
	TransportRetries int           `env:"ATOL_TRANSPORT_RETRIES" envDefault:"0"`
}

// BatchSettings configures parallel submission.
type BatchSettings struct {
	Workers          int           `env:"ATOL_WORKERS" envDefault:"4"`
	BreakerThreshold int           `env:"ATOL_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"ATOL_BREAKER_COOLDOWN" envDefault:"30s"`
}

// AuditSettings configures the exchange audit trail.
type AuditSettings struct {
	Enabled     bool   `env:"AUDIT_ENABLED" envDefault:"false"`
	DatabaseURL string `env:"AUDIT_DATABASE_URL"`
	MaxConns    int32  `env:"AUDIT_MAX_CONNS" envDefault:"4"`
	LogBodies   bool   `env:"AUDIT_LOG_BODIES" envDefault:"true"`
	MaxBodySize int    `env:"AUDIT_MAX_BODY_SIZE" envDefault:"102400"`
}

// Load resolves configuration from environment variables, after loading the
// given dotenv files (".env" when none are given). Missing files are
// ignored; variables already set in the environment take precedence.
func Load(envFiles ...string) (AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Atol.Protocol = strings.ToLower(strings.TrimSpace(cfg.Atol.Protocol))
	if cfg.Atol.APIVersion == "" {
		cfg.Atol.APIVersion = cfg.Atol.Protocol
	}
	cfg.Atol.Host = strings.TrimRight(cfg.Atol.Host, "/")

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.Atol.Protocol {
	case "v3", "v4":
	default:
		return fmt.Errorf("invalid config: ATOL_PROTOCOL must be 'v3' or 'v4', got %q", c.Atol.Protocol)
	}

	switch c.Atol.ErroredUUID {
	case "default", "return", "fail":
	default:
		return fmt.Errorf("invalid config: ATOL_ERRORED_UUID must be 'default', 'return' or 'fail', got %q", c.Atol.ErroredUUID)
	}

	if c.Atol.TokenTTL <= 0 {
		return errors.New("invalid config: ATOL_TOKEN_TTL must be positive")
	}
	if c.Atol.TransportRetries < 0 {
		return errors.New("invalid config: ATOL_TRANSPORT_RETRIES cannot be negative")
	}
	if c.Batch.Workers <= 0 {
		return errors.New("invalid config: ATOL_WORKERS must be greater than 0")
	}
	if c.Batch.BreakerThreshold <= 0 {
		return errors.New("invalid config: ATOL_BREAKER_THRESHOLD must be greater than 0")
	}
	if c.Audit.Enabled && c.Audit.DatabaseURL == "" {
		return errors.New("invalid config: AUDIT_DATABASE_URL is required when AUDIT_ENABLED=true")
	}
	return nil
}

// RequireCredentials reports a missing login, password or group code.
// Only commands that talk to the service need them.
func (a AtolSettings) RequireCredentials() error {
	var missing []string
	if a.Login == "" {
		missing = append(missing, "ATOL_LOGIN")
	}
	if a.Password == "" {
		missing = append(missing, "ATOL_PASSWORD")
	}
	if a.GroupCode == "" {
		missing = append(missing, "ATOL_GROUP_CODE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: %s required", strings.Join(missing, ", "))
	}
	return nil
}
