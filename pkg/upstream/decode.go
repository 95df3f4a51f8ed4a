// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsupportedEncoding is returned by DecodeBody for a Content-Encoding it
// cannot undo.
var ErrUnsupportedEncoding = errors.New("unsupported content encoding")

// DecodeBody wraps resp.Body so reads yield the identity-encoded payload.
// Decoders work incrementally, so event streams keep flowing chunk by chunk.
// Closing the returned reader closes resp.Body.
func DecodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("open gzip body: %w", err)
		}
		return &decodedBody{Reader: zr, closeDecoder: zr.Close, body: resp.Body}, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("open deflate body: %w", err)
		}
		return &decodedBody{Reader: zr, closeDecoder: zr.Close, body: resp.Body}, nil
	case "br":
		return &decodedBody{Reader: brotli.NewReader(resp.Body), body: resp.Body}, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd body: %w", err)
		}
		return &decodedBody{
			Reader: zr,
			closeDecoder: func() error {
				zr.Close()
				return nil
			},
			body: resp.Body,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

type decodedBody struct {
	io.Reader
	closeDecoder func() error
	body         io.Closer
}

func (d *decodedBody) Close() error {
	var decErr error
	if d.closeDecoder != nil {
		decErr = d.closeDecoder()
	}
	return errors.Join(decErr, d.body.Close())
}
