// Copyright 2025 Certen Protocol
//
// Process-wide configuration for the semtrace executor/verifier CLI.
//
// Adapted from the validator's Config/Load/Validate/getEnv idiom: read
// named environment variables with safe defaults, then validate. Narrowed
// from the dozen blockchain-network/database/attestation settings blocks
// down to what cmd/semtrace actually reads.
package config

import (
	"fmt"
	"os"
)

// Config holds process-wide configuration for the semtrace CLI.
type Config struct {
	// MetricsAddr is where the Prometheus /metrics endpoint listens, if
	// the CLI is asked to serve it.
	MetricsAddr string

	// LogLevel controls pkg/semlog's verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// UniverseConfigPath, if set, is loaded by pkg/universecfg to override
	// the default universe bounds.
	UniverseConfigPath string
}

// Load reads configuration from environment variables, applying safe
// defaults for any that are unset.
func Load() *Config {
	return &Config{
		MetricsAddr:        getEnv("SEMTRACE_METRICS_ADDR", ":9090"),
		LogLevel:           getEnv("SEMTRACE_LOG_LEVEL", "info"),
		UniverseConfigPath: getEnv("SEMTRACE_UNIVERSE_CONFIG", ""),
	}
}

// Validate reports whether the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid SEMTRACE_LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
