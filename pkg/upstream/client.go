// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewClient returns an http.Client with pooled connections. A zero timeout
// leaves the round trip unbounded so long completions can stream.
func NewClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Accept-Encoding is set explicitly from the browser header table,
		// so bodies are decoded by DecodeBody rather than the transport.
		DisableCompression: true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewRequest builds the POST sent upstream. Only the browser headers are
// attached; nothing from the inbound request is carried over.
func NewRequest(ctx context.Context, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	ApplyBrowserHeaders(req.Header)
	return req, nil
}
