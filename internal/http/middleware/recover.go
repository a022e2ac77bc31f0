package middleware

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/courtside/internal/http/problem"
	logctx "github.com/pribylovaa/courtside/pkg/log"
)

// Recover перехватывает panic и отвечает 500 без деталей паники.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					problem.Write(w, r, problem.New(http.StatusInternalServerError, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
