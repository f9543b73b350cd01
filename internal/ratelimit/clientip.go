package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownAddress is used when no client address header is present. Every such
// caller shares one bucket.
const UnknownAddress = "unknown"

// ClientAddress resolves the caller's address from proxy headers, in priority
// order: X-Forwarded-For (first entry), X-Real-IP, CF-Connecting-IP.
func ClientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	if cfIP := r.Header.Get("CF-Connecting-IP"); cfIP != "" {
		return strings.TrimSpace(cfIP)
	}
	return UnknownAddress
}
