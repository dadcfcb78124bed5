package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by runwasm.
const (
	EnvCargo       = "CARGO"
	EnvBindgen     = "WASM_BINDGEN"
	EnvLogLevel    = "RUNWASM_LOG_LEVEL"
	EnvMetricsFile = "RUNWASM_METRICS_FILE"
)

// Environment holds the process environment inputs, read once at startup and threaded
// explicitly into the components that need them.
type Environment struct {
	Cargo       string // compiler binary
	Bindgen     string // binding generator binary
	LogLevel    slog.Level
	MetricsFile string // empty disables metrics export
}

// LoadEnvFiles loads .env and .env.local from dir into the process environment.
// Missing files are skipped and existing variables are never overwritten.
func LoadEnvFiles(dir string) error {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		slog.Debug("Loaded environment file", "path", path)
	}
	return nil
}

// EnvironmentFrom builds an Environment from a lookup function such as os.LookupEnv.
func EnvironmentFrom(lookup func(string) (string, bool)) Environment {
	env := Environment{
		Cargo:    "cargo",
		Bindgen:  "wasm-bindgen",
		LogLevel: slog.LevelInfo,
	}
	if v, ok := lookup(EnvCargo); ok && v != "" {
		env.Cargo = v
	}
	if v, ok := lookup(EnvBindgen); ok && v != "" {
		env.Bindgen = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		env.LogLevel = parseLogLevel(v)
	}
	if v, ok := lookup(EnvMetricsFile); ok {
		env.MetricsFile = v
	}
	return env
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
