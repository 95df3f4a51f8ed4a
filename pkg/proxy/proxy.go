// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/deepinfra-proxy/pkg/auth"
	"github.com/go-core-stack/deepinfra-proxy/pkg/config"
	"github.com/go-core-stack/deepinfra-proxy/pkg/models"
	"github.com/go-core-stack/deepinfra-proxy/pkg/upstream"
)

const (
	modelsPath         = "/v1/models"
	chatPath           = "/v1/chat/completions"
	openAIChatPath     = "/v1/openai/chat/completions"
	headerRequestID    = "X-Request-ID"
	preflightMaxAge    = "86400"
	preflightHeaders   = "Content-Type, Authorization"
	allowlistMethods   = "POST, GET, OPTIONS"
	defaultModeMethods = "POST, OPTIONS"
)

// Proxy relays chat-completion requests to the upstream endpoint.
type Proxy struct {
	// cfg is the immutable runtime configuration.
	cfg config.Config
	// client performs the outbound call.
	client *http.Client
	// verifier enforces the optional bearer token.
	verifier *auth.TokenVerifier
	// allowed is consulted in allowlist mode and served on /v1/models.
	allowed *models.Set
	// logger emits structured logs for observability.
	logger zerolog.Logger
	// now stamps the model listing.
	now func() time.Time
}

// New constructs a Proxy for cfg. The configuration is copied; changes made
// by the caller afterwards are not observed.
func New(cfg config.Config) (http.Handler, error) {
	if cfg.Upstream == nil || !cfg.Upstream.IsAbs() {
		return nil, errors.New("upstream URL must be absolute")
	}

	switch cfg.Policy {
	case config.PolicyAllowlist:
	case config.PolicyDefaultModel:
		if cfg.DefaultModel == "" {
			return nil, errors.New("default-model policy requires a default model")
		}
	default:
		return nil, fmt.Errorf("unknown model policy %q", cfg.Policy)
	}

	handler := &Proxy{
		cfg:      cfg,
		client:   upstream.NewClient(cfg.RequestTimeout),
		verifier: auth.NewTokenVerifier(cfg.Token),
		allowed:  models.Default(),
		logger:   log.With().Str("component", "proxy").Logger(),
		now:      time.Now,
	}

	return handler, nil
}

// ServeHTTP dispatches in a fixed order: model listing, preflight, unknown
// path, wrong method, then the chat-completions pipeline.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	event := p.logger.With().
		Str("request_id", requestID(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	if p.cfg.Policy == config.PolicyAllowlist && r.Method == http.MethodGet && r.URL.Path == modelsPath {
		p.serveModels(w, event)
		return
	}

	if r.Method == http.MethodOptions {
		p.servePreflight(w)
		event.Debug().Msg("answered preflight")
		return
	}

	if !isChatCompletionsPath(r.URL.Path) {
		writeText(w, http.StatusNotFound, "Not Found")
		event.Debug().Msg("unknown path")
		return
	}

	if r.Method != http.MethodPost {
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		event.Debug().Msg("method not allowed")
		return
	}

	if !p.verifier.Verify(r) {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		event.Warn().Msg("rejected request with invalid bearer token")
		return
	}

	p.serveChatCompletions(w, r, event, start)
}

// serveModels lists the allowlist in OpenAI's /v1/models shape.
func (p *Proxy) serveModels(w http.ResponseWriter, event zerolog.Logger) {
	writeJSON(w, http.StatusOK, models.NewList(p.allowed, p.now()))
	event.Debug().Int("models", p.allowed.Len()).Msg("served model list")
}

// servePreflight answers a CORS preflight for any path.
func (p *Proxy) servePreflight(w http.ResponseWriter) {
	methods := allowlistMethods
	if p.cfg.Policy == config.PolicyDefaultModel {
		methods = defaultModeMethods
	}

	h := w.Header()
	h.Set(headerAllowOrigin, "*")
	h.Set("Access-Control-Allow-Methods", methods)
	h.Set("Access-Control-Allow-Headers", preflightHeaders)
	h.Set("Access-Control-Max-Age", preflightMaxAge)
	w.WriteHeader(http.StatusOK)
}

func isChatCompletionsPath(path string) bool {
	return path == chatPath || path == openAIChatPath
}

// requestID reuses a caller-supplied X-Request-ID for log correlation and
// mints one otherwise.
func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(headerRequestID)); id != "" {
		return id
	}
	return uuid.NewString()
}
