// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"errors"
	"net/http"
)

// flushWriter pushes every chunk to the client as soon as it is written so
// server-sent events are not held in the response buffer.
type flushWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
	// canFlush drops to false once the writer reports it cannot flush.
	canFlush bool
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	return &flushWriter{
		w:        w,
		rc:       http.NewResponseController(w),
		canFlush: true,
	}
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil || !f.canFlush {
		return n, err
	}
	if flushErr := f.rc.Flush(); flushErr != nil {
		if errors.Is(flushErr, http.ErrNotSupported) {
			f.canFlush = false
			return n, nil
		}
		return n, flushErr
	}
	return n, nil
}
