// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

func TestApplyBrowserHeadersOverridesExisting(t *testing.T) {
	h := make(http.Header)
	h.Set("User-Agent", "curl/8.0")
	h.Set("Accept", "application/json")
	h.Set("X-Custom", "kept")

	ApplyBrowserHeaders(h)

	if got := h.Get("User-Agent"); !strings.Contains(got, "Edg/133.0.0.0") {
		t.Fatalf("user agent not replaced: %q", got)
	}
	if got := h.Values("Accept"); len(got) != 1 || got[0] != "text/event-stream" {
		t.Fatalf("accept not replaced: %v", got)
	}
	if got := h.Get("X-Custom"); got != "kept" {
		t.Fatalf("unrelated header touched: %q", got)
	}
}

func TestBrowserHeadersCompleteSet(t *testing.T) {
	h := BrowserHeaders()

	want := map[string]string{
		"Accept-Encoding":    "gzip, deflate, br, zstd",
		"Content-Type":       "application/json",
		"Sec-Ch-Ua-Platform": "Windows",
		"Sec-Ch-Ua-Mobile":   "?0",
		"X-Deepinfra-Source": "web-page",
		"Origin":             "https://deepinfra.com",
		"Referer":            "https://deepinfra.com/",
		"Sec-Fetch-Site":     "same-site",
		"Sec-Fetch-Mode":     "cors",
		"Sec-Fetch-Dest":     "empty",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if !strings.Contains(h.Get("Sec-Ch-Ua"), `"Microsoft Edge";v="133"`) {
		t.Errorf("unexpected sec-ch-ua: %q", h.Get("Sec-Ch-Ua"))
	}
	if len(h) != len(browserHeaders) {
		t.Errorf("expected %d headers, got %d", len(browserHeaders), len(h))
	}
}

func TestNewRequestCarriesBodyAndHeaders(t *testing.T) {
	body := []byte(`{"model":"Qwen/Qwen3-32B"}`)

	req, err := NewRequest(context.Background(), Endpoint, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", req.Method)
	}
	if req.URL.String() != Endpoint {
		t.Fatalf("unexpected url: %s", req.URL)
	}
	if req.Header.Get("Origin") != "https://deepinfra.com" {
		t.Fatalf("browser headers missing: %v", req.Header)
	}
	got, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body mismatch: %s", got)
	}
}

func TestNewClientDisablesTransparentDecompression(t *testing.T) {
	client := NewClient(0)

	tr, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("unexpected transport %T", client.Transport)
	}
	if !tr.DisableCompression {
		t.Fatalf("expected DisableCompression")
	}
	if client.Timeout != 0 {
		t.Fatalf("expected no client timeout, got %s", client.Timeout)
	}
}

func TestDecodeBody(t *testing.T) {
	const payload = "data: {\"choices\":[]}\n\ndata: [DONE]\n\n"

	tests := []struct {
		encoding string
		compress func(t *testing.T, s string) []byte
	}{
		{"", identity},
		{"identity", identity},
		{"gzip", gzipBytes},
		{"deflate", zlibBytes},
		{"br", brotliBytes},
		{"zstd", zstdBytes},
	}

	for _, tt := range tests {
		t.Run("encoding="+tt.encoding, func(t *testing.T) {
			closed := false
			resp := &http.Response{
				Header: make(http.Header),
				Body: &trackingCloser{
					Reader:  bytes.NewReader(tt.compress(t, payload)),
					onClose: func() { closed = true },
				},
			}
			if tt.encoding != "" {
				resp.Header.Set("Content-Encoding", tt.encoding)
			}

			rc, err := DecodeBody(resp)
			if err != nil {
				t.Fatalf("DecodeBody: %v", err)
			}
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read decoded body: %v", err)
			}
			if string(got) != payload {
				t.Fatalf("decoded payload mismatch: %q", got)
			}
			if err := rc.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			if !closed {
				t.Fatalf("upstream body not closed")
			}
		})
	}
}

func TestDecodeBodyRejectsUnknownEncoding(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"compress"}},
		Body:   io.NopCloser(strings.NewReader("x")),
	}

	_, err := DecodeBody(resp)
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

type trackingCloser struct {
	io.Reader
	onClose func()
}

func (c *trackingCloser) Close() error {
	c.onClose()
	return nil
}

func identity(_ *testing.T, s string) []byte {
	return []byte(s)
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := io.WriteString(w, s); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zlibBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := io.WriteString(w, s); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func brotliBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := io.WriteString(w, s); err != nil {
		t.Fatalf("brotli write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("brotli close: %v", err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}
