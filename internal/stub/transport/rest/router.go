// rest — HTTP-транспорт stub-бэкенда: маршруты /api/{R}/... для каждого
// ресурса каталога, bearer-аутентификация и ProblemDetails-ошибки.
package rest

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/courtside/internal/http/middleware"
	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// AdminRole — роль, без которой Delete отвечает 403; пустая строка снимает проверку.
	AdminRole string
	// Routes — переопределения маршрутов по имени ресурса.
	Routes map[string]models.Routes
	// Metrics — nil отключает HTTP-метрики.
	Metrics *middleware.HTTPMetrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, v middleware.Verifier, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, service.ErrNotFound)
	})

	h := NewHandlers(svc)

	root.Group(func(r chi.Router) {
		r.Use(middleware.AuthBearer(v))
		for _, def := range models.Catalog() {
			registerResource(r, h, def, routesFor(def.Name, opts.Routes), opts.AdminRole)
		}
	})

	return root
}

// registerResource — регистрация шести операций одного ресурса.
func registerResource(r chi.Router, h *Handlers, def models.Definition, rt models.Routes, adminRole string) {
	r.Get(rt.List, h.List(def))
	r.Get(rt.WithCursor, h.ListPage(def))
	r.Get(rt.ByID, h.ByID(def))
	r.Post(rt.Create, h.Create(def))
	r.Post(rt.Update, h.Update(def))

	if adminRole != "" {
		r.With(middleware.RequireRole(adminRole)).Delete(rt.Delete, h.Delete(def))
		return
	}

	r.Delete(rt.Delete, h.Delete(def))
}

func routesFor(name string, overrides map[string]models.Routes) models.Routes {
	rt := models.DefaultRoutes(name)
	for k, o := range overrides {
		if strings.EqualFold(k, name) {
			rt = rt.Merge(o)
		}
	}

	return rt
}
