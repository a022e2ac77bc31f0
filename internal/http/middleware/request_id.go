package middleware

import (
	"net/http"

	"github.com/google/uuid"

	logctx "github.com/pribylovaa/courtside/pkg/log"
)

// maxRequestIDLen — верхняя граница длины входящего X-Request-Id.
const maxRequestIDLen = 64

// RequestID обеспечивает наличие X-Request-Id:
//  1. принимает заголовок X-Request-Id (его пробрасывает apiclient из контекста CLI),
//     если он короткий и состоит из [A-Za-z0-9._:-];
//  2. иначе генерирует UUID;
//  3. кладёт id в Response Header, Request Header и в контекст (logctx.WithRequestID).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if !validRequestID(id) {
				id = uuid.NewString()
				// перезапишем в запросе — чтобы problem.Write и Logging видели тот же id.
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := logctx.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validRequestID отсекает пустые, длинные и небезопасные для логов значения.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}

	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}

	return true
}
