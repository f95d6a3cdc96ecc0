package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBSource       string
	Port           string
	Env            string
	AdminPrincipal string
	GatewayBaseURL string
	GatewayTimeout time.Duration
}

// MemoryDBSource selects the in-process store instead of Postgres.
const MemoryDBSource = "memory"

func Load() (*Config, error) {
	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	baseURL := os.Getenv("GATEWAY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("GATEWAY_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("GATEWAY_TIMEOUT_MS must be a positive integer, got %q", raw)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		DBSource:       dbSource,
		Port:           port,
		Env:            env,
		AdminPrincipal: os.Getenv("ADMIN_PRINCIPAL"),
		GatewayBaseURL: baseURL,
		GatewayTimeout: timeout,
	}, nil
}
