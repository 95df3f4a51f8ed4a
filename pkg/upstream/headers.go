// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import "net/http"

// Endpoint is the only upstream the proxy forwards to.
const Endpoint = "https://api.deepinfra.com/v1/openai/chat/completions"

type header struct {
	name  string
	value string
}

// browserHeaders mirrors what the DeepInfra web console sends from Edge on
// Windows. Upstream may refuse requests missing any of them.
var browserHeaders = [...]header{
	{"User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36 Edg/133.0.0.0"},
	{"Accept", "text/event-stream"},
	{"Accept-Encoding", "gzip, deflate, br, zstd"},
	{"Content-Type", "application/json"},
	{"sec-ch-ua-platform", "Windows"},
	{"X-Deepinfra-Source", "web-page"},
	{"sec-ch-ua", `"Not(A:Brand";v="99", "Microsoft Edge";v="133", "Chromium";v="133"`},
	{"sec-ch-ua-mobile", "?0"},
	{"Origin", "https://deepinfra.com"},
	{"Sec-Fetch-Site", "same-site"},
	{"Sec-Fetch-Mode", "cors"},
	{"Sec-Fetch-Dest", "empty"},
	{"Referer", "https://deepinfra.com/"},
}

// ApplyBrowserHeaders sets every browser header on h, replacing existing
// values of the same name.
func ApplyBrowserHeaders(h http.Header) {
	for _, hdr := range browserHeaders {
		h.Set(hdr.name, hdr.value)
	}
}

// BrowserHeaders returns a fresh copy of the browser header set.
func BrowserHeaders() http.Header {
	h := make(http.Header, len(browserHeaders))
	ApplyBrowserHeaders(h)
	return h
}
