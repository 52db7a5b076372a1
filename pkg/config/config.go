// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `validate:"oneof=dev prod"`
	HTTPAddr string `validate:"required"`

	// Backing store + optional binding cache
	DatabaseURL     string
	RedisURL        string
	BindingCacheTTL time.Duration

	// External job functions
	JobsBaseURL      string `validate:"required,url"`
	JobsRegistryFile string
	JobTimeout       time.Duration

	// Scoped-credential signing. The secret is process-wide; length is
	// enforced once here, never per request.
	SigningSecret string `validate:"required,min=32"`

	// Inbound shop-session verification
	AppClientID     string `validate:"required"`
	AppSharedSecret string `validate:"required,min=16"`
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:              env("BRIDGE_ENV", "dev"),
		HTTPAddr:         env("BRIDGE_HTTP_ADDR", ":8080"),
		DatabaseURL:      env("DATABASE_URL", ""),
		RedisURL:         env("REDIS_URL", ""),
		BindingCacheTTL:  envDur("BINDING_CACHE_TTL_SEC", 300) * time.Second,
		JobsBaseURL:      env("JOBS_BASE_URL", "http://localhost:9000"),
		JobsRegistryFile: env("JOBS_REGISTRY_FILE", ""),
		JobTimeout:       envDur("JOB_TIMEOUT_SEC", 30) * time.Second,
		SigningSecret:    env("CREDENTIAL_SIGNING_SECRET", ""),
		AppClientID:      env("APP_CLIENT_ID", ""),
		AppSharedSecret:  env("APP_SHARED_SECRET", ""),
	}
}

// Validate is the one-time startup check. Anything missing here is a
// configuration fault the process must not serve requests with.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}
