package logging

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/gofrs/uuid/v5"

	"github.com/simp-lee/linkedin"
)

type ctxKey int

const requestIDKey ctxKey = iota

// newUUID is swapped in tests.
var newUUID = uuid.NewV4

// newRequestID returns a random id, or "" when no entropy is available.
func newRequestID() string {
	id, err := newUUID()
	if err != nil {
		return ""
	}
	return id.String()
}

// RequestID returns the id LogRequestHandler attached to ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LogRequestHandler tags each request with a random id and logs method, uri,
// status, size and duration once h has answered.
func LogRequestHandler(l linkedin.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newRequestID()
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
		if id != "" {
			w.Header().Set("X-Request-Id", id)
		}

		m := httpsnoop.CaptureMetrics(h, w, r)

		// the callback query carries the code and state
		l.Debug("HTTP request served",
			"request_id", id,
			"method", r.Method,
			"ip", remoteAddress(r),
			"path", r.URL.Path,
			"statusCode", m.Code,
			"size", m.Written,
			"duration", fmt.Sprintf("%.6fms", float64(m.Duration.Nanoseconds())/1e6),
			"userAgent", r.UserAgent(),
		)
	})
}

// remoteAddress returns the client address without its port, preferring
// proxy headers.
func remoteAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
