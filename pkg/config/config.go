// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-core-stack/deepinfra-proxy/pkg/models"
	"github.com/go-core-stack/deepinfra-proxy/pkg/upstream"
)

const (
	envToken                  = "TOKEN"
	envEnforceAllowlist       = "ENFORCE_ALLOWLIST"
	envDefaultModel           = "DEFAULT_MODEL"
	envListenAddr             = "PROXY_LISTEN_ADDR"
	envRequestTimeout         = "PROXY_REQUEST_TIMEOUT"
	envLogLevel               = "PROXY_LOG_LEVEL"
	envLogFormat              = "PROXY_LOG_FORMAT"
	envServerReadTimeout      = "PROXY_SERVER_READ_TIMEOUT"
	envServerWriteTimeout     = "PROXY_SERVER_WRITE_TIMEOUT"
	envServerIdleTimeout      = "PROXY_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown       = "PROXY_GRACEFUL_SHUTDOWN"
	defaultListenAddr         = ":8000"
	defaultLogLevel           = "info"
	defaultLogFormat          = LogFormatJSON
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerIdleTimeout  = 120 * time.Second
	defaultGracefulShutdown   = 10 * time.Second
	defaultRequestTimeout     = 0
	defaultServerWriteTimeout = 0
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// ModelPolicy selects how the proxy treats the model field of a request.
type ModelPolicy string

const (
	// PolicyAllowlist rejects requests whose model is not in the allowlist
	// and exposes GET /v1/models.
	PolicyAllowlist ModelPolicy = "allowlist"
	// PolicyDefaultModel fills a missing model with DefaultModel and does not
	// check the allowlist.
	PolicyDefaultModel ModelPolicy = "default-model"
)

// Config captures runtime settings for the proxy. It is built once at
// startup and handed to the proxy by value.
type Config struct {
	ListenAddr              string
	Upstream                *url.URL
	Token                   string
	Policy                  ModelPolicy
	DefaultModel            string
	RequestTimeout          time.Duration
	LogLevel                string
	LogFormat               string
	ServerReadTimeout       time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
}

// Load reads configuration from the optional TOML file at path and the
// environment. Environment variables win over file values.
func Load(path string) (Config, error) {
	file, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	upstreamURL, err := url.Parse(upstream.Endpoint)
	if err != nil {
		return Config{}, fmt.Errorf("invalid upstream endpoint: %w", err)
	}

	policy, defaultModel, err := resolvePolicy(file)
	if err != nil {
		return Config{}, err
	}

	logFormat := strings.ToLower(getString(envLogFormat, firstNonEmpty(file.LogFormat, defaultLogFormat)))
	if logFormat != LogFormatJSON && logFormat != LogFormatConsole {
		return Config{}, fmt.Errorf("invalid log format %q: must be %q or %q", logFormat, LogFormatJSON, LogFormatConsole)
	}

	cfg := Config{
		ListenAddr:   getString(envListenAddr, firstNonEmpty(file.ListenAddr, defaultListenAddr)),
		Upstream:     upstreamURL,
		Token:        getString(envToken, strings.TrimSpace(file.Token)),
		Policy:       policy,
		DefaultModel: defaultModel,
		LogLevel:     strings.ToLower(getString(envLogLevel, firstNonEmpty(file.LogLevel, defaultLogLevel))),
		LogFormat:    logFormat,
	}

	durations := []struct {
		dst      *time.Duration
		env      string
		file     string
		fallback time.Duration
	}{
		{&cfg.RequestTimeout, envRequestTimeout, file.RequestTimeout, defaultRequestTimeout},
		{&cfg.ServerReadTimeout, envServerReadTimeout, file.ServerReadTimeout, defaultServerReadTimeout},
		{&cfg.ServerWriteTimeout, envServerWriteTimeout, file.ServerWriteTimeout, defaultServerWriteTimeout},
		{&cfg.ServerIdleTimeout, envServerIdleTimeout, file.ServerIdleTimeout, defaultServerIdleTimeout},
		{&cfg.GracefulShutdownTimeout, envGracefulShutdown, file.GracefulShutdown, defaultGracefulShutdown},
	}
	for _, d := range durations {
		fallback, err := parseFileDuration(d.file, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = getDuration(d.env, fallback)
	}

	return cfg, nil
}

// resolvePolicy picks the model policy. Setting DEFAULT_MODEL without
// ENFORCE_ALLOWLIST selects default-model mode; asking for both is an error.
func resolvePolicy(file fileConfig) (ModelPolicy, string, error) {
	defaultModel := getString(envDefaultModel, strings.TrimSpace(file.DefaultModel))

	enforce := file.EnforceAllowlist
	if raw := strings.TrimSpace(os.Getenv(envEnforceAllowlist)); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return "", "", fmt.Errorf("invalid %s %q: %w", envEnforceAllowlist, raw, err)
		}
		enforce = &parsed
	}

	switch {
	case enforce == nil && defaultModel == "":
		return PolicyAllowlist, "", nil
	case enforce == nil:
		return PolicyDefaultModel, defaultModel, nil
	case *enforce && defaultModel != "":
		return "", "", errors.New("ENFORCE_ALLOWLIST=true cannot be combined with DEFAULT_MODEL")
	case *enforce:
		return PolicyAllowlist, "", nil
	case defaultModel == "":
		return PolicyDefaultModel, models.DefaultModel, nil
	default:
		return PolicyDefaultModel, defaultModel, nil
	}
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
