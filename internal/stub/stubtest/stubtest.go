// stubtest поднимает stub-бэкенд на httptest.Server для тестов клиентов.
package stubtest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/courtside/internal/auth"
	"github.com/pribylovaa/courtside/internal/config"
	"github.com/pribylovaa/courtside/internal/http/middleware"
	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/service"
	"github.com/pribylovaa/courtside/internal/stub/storage/memory"
	"github.com/pribylovaa/courtside/internal/stub/transport/rest"
)

const (
	// Secret — ключ подписи токенов тестового сервера.
	Secret = "stubtest-secret"
	// Issuer — издатель токенов тестового сервера.
	Issuer = "courtside"
	// AdminRole — роль, которой разрешено удаление.
	AdminRole = "admin"
)

// Server — stub-бэкенд с доступом к хранилищу, токенам и метрикам.
type Server struct {
	*httptest.Server
	Store    *memory.Store
	Tokens   *auth.Tokens
	Registry *prometheus.Registry

	hits atomic.Int64
}

// Option настраивает rest.Options перед сборкой роутера.
type Option func(*rest.Options)

// WithRoutes — переопределения маршрутов ресурсов.
func WithRoutes(routes map[string]models.Routes) Option {
	return func(o *rest.Options) { o.Routes = routes }
}

// New поднимает сервер с данными seed (ресурс -> документы) и закрывает его в t.Cleanup.
func New(t testing.TB, seed map[string][]models.Document, opts ...Option) *Server {
	t.Helper()

	store := memory.New()
	for resource, docs := range seed {
		for _, d := range docs {
			if err := store.Insert(context.Background(), resource, d); err != nil {
				t.Fatalf("stubtest: seed %s: %v", resource, err)
			}
		}
	}

	tokens, err := auth.New(auth.Options{Secret: Secret, Issuer: Issuer, TTL: time.Hour})
	if err != nil {
		t.Fatalf("stubtest: tokens: %v", err)
	}

	reg := prometheus.NewRegistry()
	ro := rest.Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		AdminRole: AdminRole,
		Metrics:   middleware.NewHTTPMetrics(reg),
	}
	for _, o := range opts {
		o(&ro)
	}

	svc := service.New(store, config.LimitsConfig{Default: 20, Max: 100})
	router := rest.NewRouter(svc, tokens, ro)

	s := &Server{Store: store, Tokens: tokens, Registry: reg}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

// Hits — сколько HTTP-запросов получил сервер.
func (s *Server) Hits() int64 { return s.hits.Load() }

// Token выпускает токен для роли role.
func (s *Server) Token(t testing.TB, role string) string {
	t.Helper()

	tok, err := s.Tokens.Issue("stubtest-user", role)
	if err != nil {
		t.Fatalf("stubtest: issue token: %v", err)
	}

	return tok
}
