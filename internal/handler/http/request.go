package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
)

// identity returns the caller set by middleware.AuthRequired. Handlers behind
// that middleware can rely on it; the 401 is for misconfigured routes.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return id, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// optionalIntQueryParam reports a malformed value as ok=false.
func optionalIntQueryParam(r *http.Request, key string) (*int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, true
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}
	return &i, true
}

func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
