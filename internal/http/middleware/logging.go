package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/courtside/pkg/log"
)

// pageParams — параметры курсорной выдачи, которые попадают в запись "http".
// Сам курсор не логируется: он длинный и непрозрачный.
var pageParams = []string{"direction", "sortBy", "limit"}

// Logging кладёт request-scoped логгер в контекст и пишет запись "http" по завершении запроса.
// Уровень: 5xx — Error, 4xx — Warn, остальное — Info.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			ctx := logctx.Into(r.Context(), reqLogger)
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", sw.code()),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}

			q := r.URL.Query()
			for _, name := range pageParams {
				if v := q.Get(name); v != "" {
					attrs = append(attrs, slog.String(name, v))
				}
			}
			if q.Has("cursor") {
				attrs = append(attrs, slog.Bool("has_cursor", q.Get("cursor") != ""))
			}

			lvl := slog.LevelInfo
			switch {
			case sw.code() >= http.StatusInternalServerError:
				lvl = slog.LevelError
			case sw.code() >= http.StatusBadRequest:
				lvl = slog.LevelWarn
			}

			logctx.From(r.Context()).LogAttrs(r.Context(), lvl, "http", attrs...)
		})
	}
}
