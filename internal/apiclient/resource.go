package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/pagination"
	"github.com/pribylovaa/courtside/pkg/log"
)

// Resource — клиент одного ресурса: T — полная сущность, D — строка курсорной выдачи.
type Resource[T, D any] struct {
	c      *Client
	def    models.Definition
	routes models.Routes
}

// NewResource создаёт клиента ресурса def поверх общего Client.
func NewResource[T, D any](c *Client, def models.Definition) *Resource[T, D] {
	return &Resource[T, D]{
		c:      c,
		def:    def,
		routes: c.routesFor(def.Name),
	}
}

// Definition возвращает описание ресурса.
func (r *Resource[T, D]) Definition() models.Definition { return r.def }

// Routes возвращает действующие маршруты ресурса.
func (r *Resource[T, D]) Routes() models.Routes { return r.routes }

func (r *Resource[T, D]) where(op string) string {
	return op + "[" + r.def.Name + "]"
}

// ListAll возвращает все записи ресурса без пагинации.
//
// Ошибки: ErrUnauthorized (401), ErrForbidden (403), ErrUpstream (прочие не-2xx),
// ErrTransport, ErrCanceled.
func (r *Resource[T, D]) ListAll(ctx context.Context, token string) ([]T, error) {
	const op = "apiclient.Resource.ListAll"
	where := r.where(op)

	lg := log.From(ctx)
	lg.Debug("list_all_request",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
	)

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "list_all",
		method:    http.MethodGet,
		route:     r.routes.List,
		token:     token,
	})
	if err != nil {
		return nil, r.fail(ctx, op, "list_all_failed", err)
	}

	if !resp.ok() {
		return nil, r.fail(ctx, op, "list_all_failed", classify(where, resp.status, resp.body))
	}

	var items []T
	if err := decode(where, resp.body, &items); err != nil {
		return nil, r.fail(ctx, op, "list_all_failed", err)
	}

	if items == nil {
		items = []T{}
	}

	lg.Info("list_all_ok",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
		slog.Int("items", len(items)),
	)

	return items, nil
}

// ListPage возвращает одну страницу курсорной выдачи.
//
// Параметры проверяются до сетевого вызова (ErrInvalidArgument):
// отрицательный limit, неизвестное направление или поле сортировки,
// previous без курсора, пустой токен.
func (r *Resource[T, D]) ListPage(ctx context.Context, req models.PageRequest, token string) (*models.CursorPage[D], error) {
	const op = "apiclient.Resource.ListPage"
	where := r.where(op)

	lg := log.From(ctx)

	q, dir, err := r.pageQuery(where, req)
	if err != nil {
		lg.Warn("list_page_invalid_argument",
			slog.String("op", op),
			slog.String("resource", r.def.Name),
			slog.String("err", err.Error()),
		)

		return nil, err
	}

	lg.Debug("list_page_request",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
		slog.String("direction", string(dir)),
		slog.String("sort_by", q.Get("sortBy")),
		slog.String("limit", q.Get("limit")),
		slog.Bool("has_cursor", req.Cursor != ""),
	)

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "list_page",
		method:    http.MethodGet,
		route:     r.routes.WithCursor,
		query:     q,
		token:     token,
	})
	if err != nil {
		return nil, r.fail(ctx, op, "list_page_failed", err)
	}

	if !resp.ok() {
		return nil, r.fail(ctx, op, "list_page_failed", classify(where, resp.status, resp.body))
	}

	var page models.CursorPage[D]
	if err := decode(where, resp.body, &page); err != nil {
		return nil, r.fail(ctx, op, "list_page_failed", err)
	}

	normalizePage(&page, dir)

	lg.Info("list_page_ok",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
		slog.Int("items", len(page.Items)),
		slog.Bool("has_more", page.HasMore),
	)

	return &page, nil
}

// pageQuery нормализует и валидирует PageRequest в query-параметры.
func (r *Resource[T, D]) pageQuery(where string, req models.PageRequest) (url.Values, pagination.Direction, error) {
	limit := req.Limit
	switch {
	case limit < 0:
		return nil, "", fmt.Errorf("%s: %w: limit must be positive, got %d", where, ErrInvalidArgument, limit)
	case limit == 0:
		limit = r.c.limits.Default
	case limit > r.c.limits.Max:
		limit = r.c.limits.Max
	}

	dir, err := pagination.ParseDirection(req.Direction)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w: %v", where, ErrInvalidArgument, err)
	}

	s, err := r.def.ParseSort(req.SortBy)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w: %v", where, ErrInvalidArgument, err)
	}

	cursor := strings.TrimSpace(req.Cursor)
	if dir == pagination.Previous && cursor == "" {
		return nil, "", fmt.Errorf("%s: %w: previous page requires a cursor", where, ErrInvalidArgument)
	}

	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("direction", string(dir))
	q.Set("sortBy", s.String())

	return q, dir, nil
}

// normalizePage: пустые курсоры -> nil, Items не nil,
// HasMore — наличие курсора в запрошенном направлении.
func normalizePage[D any](p *models.CursorPage[D], dir pagination.Direction) {
	if p.Items == nil {
		p.Items = []D{}
	}

	if p.NextCursor != nil && *p.NextCursor == "" {
		p.NextCursor = nil
	}

	if p.PreviousCursor != nil && *p.PreviousCursor == "" {
		p.PreviousCursor = nil
	}

	if dir == pagination.Previous {
		p.HasMore = p.PreviousCursor != nil
	} else {
		p.HasMore = p.NextCursor != nil
	}
}

// GetByID возвращает запись по id.
//
// Ошибки: ErrNotFound (404), ErrUnauthorized (401) и общие.
func (r *Resource[T, D]) GetByID(ctx context.Context, id, token string) (*T, error) {
	const op = "apiclient.Resource.GetByID"
	where := r.where(op)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w: empty id", where, ErrInvalidArgument)
	}

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "get_by_id",
		method:    http.MethodGet,
		route:     r.routes.ByID,
		query:     url.Values{"id": {id}},
		token:     token,
	})
	if err != nil {
		return nil, r.fail(ctx, op, "get_by_id_failed", err)
	}

	if !resp.ok() {
		return nil, r.fail(ctx, op, "get_by_id_failed", classify(where, resp.status, resp.body))
	}

	var item T
	if err := decode(where, resp.body, &item); err != nil {
		return nil, r.fail(ctx, op, "get_by_id_failed", err)
	}

	return &item, nil
}

// Create создаёт запись и возвращает её в том виде, как её сохранил бэкенд
// (с назначенным Id). 400 -> *ValidationError с полевыми сообщениями.
func (r *Resource[T, D]) Create(ctx context.Context, entity T, token string) (*T, error) {
	const op = "apiclient.Resource.Create"
	where := r.where(op)

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "create",
		method:    http.MethodPost,
		route:     r.routes.Create,
		body:      entity,
		token:     token,
	})
	if err != nil {
		return nil, r.fail(ctx, op, "create_failed", err)
	}

	if !resp.ok() {
		return nil, r.fail(ctx, op, "create_failed", classify(where, resp.status, resp.body))
	}

	var created T
	if err := decode(where, resp.body, &created); err != nil {
		return nil, r.fail(ctx, op, "create_failed", err)
	}

	log.From(ctx).Info("create_ok",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
	)

	return &created, nil
}

// Update отправляет запись целиком. Возвращает false без ошибки, если бэкенд
// отказал по бизнес-правилам (любой не-2xx, кроме 401 и 403, или тело false).
// Ошибка — 401/403 (ErrUnauthorized/ErrForbidden), транспорт, отмена и
// некорректные аргументы.
func (r *Resource[T, D]) Update(ctx context.Context, entity T, token string) (bool, error) {
	const op = "apiclient.Resource.Update"
	where := r.where(op)

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "update",
		method:    http.MethodPost,
		route:     r.routes.Update,
		body:      entity,
		token:     token,
	})
	if err != nil {
		return false, r.fail(ctx, op, "update_failed", err)
	}

	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		return false, r.fail(ctx, op, "update_failed", classify(where, resp.status, resp.body))
	}

	if !resp.ok() {
		log.From(ctx).Warn("update_rejected",
			slog.String("op", op),
			slog.String("resource", r.def.Name),
			slog.Int("status", resp.status),
			slog.String("message", messageOf(classify(where, resp.status, resp.body))),
		)

		return false, nil
	}

	return reportedSuccess(resp.body), nil
}

// Delete удаляет запись по id. 404 считается успехом (повторное удаление безопасно).
// Отказ бэкенда (403, конфликт ссылок, 5xx) — OK=false и Message без ошибки.
func (r *Resource[T, D]) Delete(ctx context.Context, id, token string) (models.DeleteResult, error) {
	const op = "apiclient.Resource.Delete"
	where := r.where(op)

	id = strings.TrimSpace(id)
	if id == "" {
		return models.DeleteResult{}, fmt.Errorf("%s: %w: empty id", where, ErrInvalidArgument)
	}

	resp, err := r.c.do(ctx, where, call{
		resource:  r.def.Name,
		operation: "delete",
		method:    http.MethodDelete,
		route:     r.routes.Delete,
		query:     url.Values{"id": {id}},
		token:     token,
	})
	if err != nil {
		return models.DeleteResult{}, r.fail(ctx, op, "delete_failed", err)
	}

	lg := log.From(ctx)

	switch {
	case resp.ok():
		if !reportedSuccess(resp.body) {
			return models.DeleteResult{Message: "backend reported failure"}, nil
		}
		return models.DeleteResult{OK: true}, nil
	case resp.status == http.StatusNotFound:
		lg.Info("delete_not_found",
			slog.String("op", op),
			slog.String("resource", r.def.Name),
			slog.String("id", id),
		)
		return models.DeleteResult{OK: true, NotFound: true}, nil
	case resp.status == http.StatusUnauthorized:
		return models.DeleteResult{}, r.fail(ctx, op, "delete_failed", classify(where, resp.status, resp.body))
	}

	msg := messageOf(classify(where, resp.status, resp.body))
	lg.Warn("delete_rejected",
		slog.String("op", op),
		slog.String("resource", r.def.Name),
		slog.String("id", id),
		slog.Int("status", resp.status),
		slog.String("message", msg),
	)

	return models.DeleteResult{Message: msg}, nil
}

// fail логирует ошибку на уровне, соответствующем её классу.
func (r *Resource[T, D]) fail(ctx context.Context, op, event string, err error) error {
	lvl := slog.LevelError
	switch {
	case errors.Is(err, ErrCanceled), errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
		lvl = slog.LevelInfo
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidArgument):
		lvl = slog.LevelWarn
	}

	log.From(ctx).Log(ctx, lvl, event,
		slog.String("op", op),
		slog.String("resource", r.def.Name),
		slog.String("err", err.Error()),
	)

	return err
}

// reportedSuccess: тело-литерал false означает отказ; всё прочее — успех.
func reportedSuccess(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return true
	}

	var ok bool
	if err := json.Unmarshal(body, &ok); err == nil {
		return ok
	}

	return true
}
