package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/velstore/catalog-backend/api/responses"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/logger"
)

// Recoverer turns a handler panic into a logged 500 instead of tearing down
// the connection. http.ErrAbortHandler is re-raised because it is the
// sanctioned way for a handler to abort mid-response.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic": rec,
						"stack": string(debug.Stack()),
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
