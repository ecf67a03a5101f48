package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/docket/pkg/handlers"
)

// Recover converts a handler panic into a 500 response and logs it.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					handlers.RespondError(w, logger, http.StatusInternalServerError,
						fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, v))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
