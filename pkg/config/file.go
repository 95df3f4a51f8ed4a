// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// fileConfig is the TOML representation. Every key is optional.
type fileConfig struct {
	ListenAddr         string `toml:"listen_addr"`
	Token              string `toml:"token"`
	EnforceAllowlist   *bool  `toml:"enforce_allowlist"`
	DefaultModel       string `toml:"default_model"`
	RequestTimeout     string `toml:"request_timeout"`
	LogLevel           string `toml:"log_level"`
	LogFormat          string `toml:"log_format"`
	ServerReadTimeout  string `toml:"server_read_timeout"`
	ServerWriteTimeout string `toml:"server_write_timeout"`
	ServerIdleTimeout  string `toml:"server_idle_timeout"`
	GracefulShutdown   string `toml:"graceful_shutdown"`
}

func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fileConfig{}, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func parseFileDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q in config file: %w", raw, err)
	}
	return d, nil
}

// LoadEnvFile exports the variables of a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is only an error when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
