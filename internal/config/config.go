// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package config loads and validates server configuration.
//
// Precedence, lowest to highest: built-in defaults, YAML config file,
// command-line flags, environment. Secrets (database URL, signing key)
// come only from the environment so they never land in config files or
// process listings.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment variable names.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvSecretKey   = "DEPOT_SECRET_KEY"
)

// MinSecretKeyLen is the minimum signing-key length in bytes.
const MinSecretKeyLen = 32

// Default values.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
)

// Config holds server configuration.
type Config struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics-addr"`
	LogFormat   string `koanf:"log-format"`
	DatabaseURL string `koanf:"-"`
	SecretKey   string `koanf:"-"`
}

// Load builds a Config from the optional YAML file at path, the given
// flag set, and the environment.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// Flags override file values; posflag only reports flags that
		// were actually set or carry defaults absent from the file.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := &Config{
		Addr:        DefaultAddr,
		MetricsAddr: DefaultMetricsAddr,
		LogFormat:   DefaultLogFormat,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)
	cfg.SecretKey = os.Getenv(EnvSecretKey)

	return cfg, nil
}

// Validate checks that the configuration is complete enough to serve.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("%s environment variable is required", EnvDatabaseURL)
	}
	if len(c.SecretKey) < MinSecretKeyLen {
		return oops.Code("CONFIG_INVALID").
			Errorf("%s must be at least %d bytes", EnvSecretKey, MinSecretKeyLen)
	}
	return nil
}
