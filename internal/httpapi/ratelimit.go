package httpapi

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/1broseidon/glassdesk/internal/pointer"
)

// PointerLimiter caps the rate of pointer moves. A single desktop serves a
// single user, so one shared bucket is enough. Presses, releases and
// cancels always pass: dropping a release would leave a drag holding its
// pointer listener.
type PointerLimiter struct {
	limiter *rate.Limiter
	limit   rate.Limit
}

func NewPointerLimiter(limit rate.Limit, burst int) *PointerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &PointerLimiter{limiter: rate.NewLimiter(limit, burst), limit: limit}
}

// Allow reports whether ev may reach the desktop, spending a token for
// moves only. A nil limiter allows everything.
func (pl *PointerLimiter) Allow(ev pointer.Event) bool {
	if pl == nil || ev.Kind != pointer.Move {
		return true
	}
	return pl.limiter.Allow()
}

// reject writes the 429 for a throttled move.
func (pl *PointerLimiter) reject(w http.ResponseWriter) {
	writeRateLimitResponse(w, pl.limit)
	slog.Warn("rate limit exceeded", slog.String("limit_type", "pointer"))
}

func writeRateLimitResponse(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := 1
	if limit > 0 {
		retryAfter = int(math.Ceil(1.0 / float64(limit)))
	}
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(apiError{
		Code:    "rate_limited",
		Message: "too many pointer events",
	})
}
