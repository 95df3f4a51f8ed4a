// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/go-core-stack/deepinfra-proxy/pkg/config"
	"github.com/go-core-stack/deepinfra-proxy/pkg/upstream"
)

const defaultContentType = "application/json"

var (
	errMalformedJSON = errors.New("malformed JSON in request body")
	errNotObject     = errors.New("request body must be a JSON object")
	errInvalidModel  = errors.New("Invalid or unsupported model specified.") //nolint:staticcheck // surfaced to clients verbatim
)

// serveChatCompletions validates the body, forwards it upstream and relays
// the response.
func (p *Proxy) serveChatCompletions(w http.ResponseWriter, r *http.Request, event zerolog.Logger, start time.Time) {
	body, model, err := p.prepareBody(r, event)
	if err != nil {
		p.fail(w, err, event, start)
		return
	}

	event = event.With().
		Str("model", model).
		Bool("stream", gjson.GetBytes(body, "stream").Bool()).
		Logger()

	resp, err := p.forwardRequest(r.Context(), body)
	if err != nil {
		p.fail(w, err, event, start)
		return
	}

	reader, err := upstream.DecodeBody(resp)
	if err != nil {
		closeBody(resp.Body, event)
		p.fail(w, err, event, start)
		return
	}
	defer closeBody(reader, event)

	// Keep a bounded copy of upstream failures for the log without holding
	// back the rest of the body.
	var bodyReader io.Reader = reader
	if resp.StatusCode >= http.StatusBadRequest {
		const maxLogBody = 64 * 1024
		payload, readErr := io.ReadAll(io.LimitReader(reader, maxLogBody))
		if readErr != nil {
			p.fail(w, fmt.Errorf("read upstream error body: %w", readErr), event, start)
			return
		}
		event.Warn().
			Int("status", resp.StatusCode).
			Bytes("upstream_body", payload).
			Msg("upstream returned error")
		bodyReader = io.MultiReader(bytes.NewReader(payload), reader)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	h := w.Header()
	h.Set(headerAllowOrigin, "*")
	h.Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)

	written, copyErr := io.Copy(newFlushWriter(w), bodyReader)
	if copyErr != nil {
		// Headers are already on the wire; all that is left is to log.
		event.Error().
			Err(copyErr).
			Int("status", resp.StatusCode).
			Int64("bytes", written).
			Dur("duration", time.Since(start)).
			Msg("stream response failed")
		return
	}

	event.Info().
		Int("status", resp.StatusCode).
		Int64("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("request proxied")
}

// prepareBody reads the inbound JSON and applies the model policy. It
// returns the bytes to send upstream and the effective model.
func (p *Proxy) prepareBody(r *http.Request, event zerolog.Logger) ([]byte, string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			event.Error().
				Err(err).
				Msg("close request body failed")
		}
	}()

	if !gjson.ValidBytes(body) {
		return nil, "", errMalformedJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, "", errNotObject
	}
	model := root.Get("model")

	switch p.cfg.Policy {
	case config.PolicyDefaultModel:
		if model.Exists() && model.Type != gjson.Null && model.String() != "" {
			return body, model.String(), nil
		}
		patched, err := sjson.SetBytes(body, "model", p.cfg.DefaultModel)
		if err != nil {
			return nil, "", fmt.Errorf("inject default model: %w", err)
		}
		event.Debug().Str("model", p.cfg.DefaultModel).Msg("filled missing model")
		return patched, p.cfg.DefaultModel, nil
	default:
		if model.Type != gjson.String || !p.allowed.Contains(model.Str) {
			return nil, "", &httpError{Status: http.StatusBadRequest, Err: errInvalidModel}
		}
		return body, model.Str, nil
	}
}

// forwardRequest posts body to the upstream endpoint with the browser
// headers. The inbound context is attached so a vanished client releases the
// upstream connection.
func (p *Proxy) forwardRequest(ctx context.Context, body []byte) (*http.Response, error) {
	upstreamReq, err := upstream.NewRequest(ctx, p.cfg.Upstream.String(), body)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return nil, fmt.Errorf("perform upstream request: %w", err)
	}

	return resp, nil
}

// fail converts err into a JSON error response.
func (p *Proxy) fail(w http.ResponseWriter, err error, event zerolog.Logger, start time.Time) {
	status, message := http.StatusInternalServerError, err.Error()
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		status, message = httpErr.Status, httpErr.Err.Error()
	}

	writeJSONError(w, status, message)

	level := zerolog.ErrorLevel
	if status < http.StatusInternalServerError {
		level = zerolog.WarnLevel
	}
	event.WithLevel(level).
		Err(err).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("request failed")
}

func closeBody(c io.Closer, event zerolog.Logger) {
	if err := c.Close(); err != nil {
		event.Error().
			Err(err).
			Msg("close upstream response body failed")
	}
}
