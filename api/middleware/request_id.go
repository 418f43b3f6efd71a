package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velstore/catalog-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// maxRequestIDLen caps ids taken from the client so a hostile caller cannot
// inflate every log line on the request path.
const maxRequestIDLen = 64

// RequestID tags each request with a correlation id. An id supplied by the
// caller is honored when it looks sane; otherwise a fresh UUID is minted. The
// id is echoed back in the response header and attached to the context logger
// so every downstream log line carries it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
