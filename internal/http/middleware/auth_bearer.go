package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/courtside/internal/auth"
	"github.com/pribylovaa/courtside/internal/http/problem"
	logctx "github.com/pribylovaa/courtside/pkg/log"
)

// Verifier проверяет bearer-токен; реализуется *auth.Tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthBearer требует валидный "Authorization: Bearer <jwt>".
// Отсутствующий, невалидный или истёкший токен -> 401 с WWW-Authenticate.
// Проверенные claims кладутся в контекст (auth.Into).
func AuthBearer(v Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, r, auth.ErrTokenMissing)
				return
			}

			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				unauthorized(w, r, err)
				return
			}

			ctx := auth.Into(r.Context(), claims)
			ctx = logctx.With(ctx, slog.String("sub", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только запросы с ролью role; иначе 403.
// Ставится после AuthBearer.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.From(r.Context()).HasRole(role) {
				logctx.From(r.Context()).Warn("forbidden",
					slog.String("path", r.URL.Path),
					slog.String("required_role", role),
				)
				problem.Write(w, r, problem.New(http.StatusForbidden, "insufficient privileges"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	detail := "invalid token"
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		detail = "missing bearer token"
	case errors.Is(err, auth.ErrTokenExpired):
		detail = "token expired"
	}

	logctx.From(r.Context()).Info("unauthorized",
		slog.String("path", r.URL.Path),
		slog.String("reason", detail),
	)

	w.Header().Set("WWW-Authenticate", `Bearer realm="courtside"`)
	problem.Write(w, r, problem.New(http.StatusUnauthorized, detail))
}
