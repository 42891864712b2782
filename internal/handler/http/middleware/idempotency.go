package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	userID := "anonymous"
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		userID = id.UserID
	}
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response of a POST retried with the same
// Idempotency-Key. Only successful responses are stored, for ttl. A retry
// that arrives while the first attempt is still running gets 409. A nil
// client disables the middleware.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, key)

			val, err := rdb.Get(ctx, cacheKey).Bytes()
			switch {
			case err == nil:
				var cached cachedResponse
				if err := json.Unmarshal(val, &cached); err == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
				slog.Warn("discarding unreadable idempotent response", "key", cacheKey)
			case !errors.Is(err, redis.Nil):
				// Redis is an optimisation here; serve the request without it.
				slog.Error("idempotency lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
			if err != nil {
				slog.Error("idempotency lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}

			rec := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				payload, err := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
				if err == nil {
					err = rdb.Set(ctx, cacheKey, payload, ttl).Err()
				}
				if err != nil {
					slog.Error("failed to store idempotent response", "key", cacheKey, "error", err)
				}
			}

			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Error("failed to release idempotency lock", "key", lockKey, "error", err)
			}
		})
	}
}
