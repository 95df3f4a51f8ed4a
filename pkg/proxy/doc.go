// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package proxy provides the HTTP handler that fronts DeepInfra's
// OpenAI-compatible chat-completions API. It answers CORS preflights and the
// model listing locally, checks the caller's bearer token, applies the
// configured model policy, and relays the request upstream dressed as the
// DeepInfra web console, streaming the response straight back.
package proxy
