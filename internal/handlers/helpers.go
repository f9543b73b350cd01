package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/ratelimit"
)

// maxBodyBytes caps request bodies. Real checkout payloads are a few KiB.
const maxBodyBytes = 64 << 10

type rateLimiter interface {
	Check(ctx context.Context, address string) ratelimit.Decision
	Limit() int
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func setRateLimitHeaders(w http.ResponseWriter, limit int, d ratelimit.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if !d.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(d.RetryAfter)))
	}
}

func retryAfterSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
