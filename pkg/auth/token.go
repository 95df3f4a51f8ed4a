// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package auth checks the bearer token callers present to the proxy.
package auth

import (
	"crypto/subtle"
	"net/http"
)

const (
	HeaderAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// TokenVerifier compares the Authorization header against a shared token.
// A verifier built with an empty token accepts every request.
type TokenVerifier struct {
	expected string
}

// NewTokenVerifier constructs a verifier for token.
func NewTokenVerifier(token string) *TokenVerifier {
	v := &TokenVerifier{}
	if token != "" {
		v.expected = bearerPrefix + token
	}
	return v
}

// Enabled reports whether a token is enforced.
func (v *TokenVerifier) Enabled() bool {
	return v.expected != ""
}

// Verify reports whether the request is authorised. The header must be
// exactly "Bearer <token>".
func (v *TokenVerifier) Verify(r *http.Request) bool {
	if !v.Enabled() {
		return true
	}
	got := r.Header.Get(HeaderAuthorization)
	return subtle.ConstantTimeCompare([]byte(got), []byte(v.expected)) == 1
}
