// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package upstream knows how to talk to the DeepInfra chat-completions
// endpoint: the fixed URL, the browser headers the web console sends, the
// HTTP client used to reach it, and decoding of compressed response bodies.
package upstream
