// Package config aggregates the per-package environment settings the API
// process starts with.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr string
	Backend  string
	Token    auth.Config
	Latency  session.Latency
	Database database.Config
	Log      utilities.Config
}

// ConfigFromEnv reads HTTP_ADDR and STORE_BACKEND and collects the package
// configs.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr: os.Getenv("HTTP_ADDR"),
		Backend:  strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))),
		Token:    auth.ConfigFromEnv(),
		Latency:  session.LatencyFromEnv(),
		Database: database.ConfigFromEnv(),
		Log:      utilities.ConfigFromEnv(),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "0.0.0.0:8431"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if cfg.Backend != BackendMemory && cfg.Backend != BackendPostgres {
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}
