package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/pagination"
	"github.com/pribylovaa/courtside/internal/stub/storage"
	"github.com/pribylovaa/courtside/pkg/log"
)

// PageQuery — параметры курсорной выдачи в том виде, как они пришли в запросе.
type PageQuery struct {
	Cursor    string
	Limit     int
	Direction string
	SortBy    string
}

// List возвращает все записи ресурса в порядке сортировки по умолчанию.
func (s *Service) List(ctx context.Context, def models.Definition) ([]models.Document, error) {
	const op = "service.queries.List"

	lg := log.From(ctx)

	docs, err := s.repo.All(ctx, def.Name)
	if err != nil {
		lg.Error("list_storage_error",
			slog.String("op", op),
			slog.String("resource", def.Name),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	srt, err := def.ParseSort("")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := pagination.Sorted(docs, srt, documentAccessor)

	lg.Info("list_ok",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.Int("items", len(out)),
	)

	return out, nil
}

// ListPage возвращает страницу курсорной выдачи.
//
// Правила нормализации:
// - limit == 0 -> limits.Default; limit < 0 -> ErrInvalidArgument;
// - limit > max -> limits.Max;
// - пустой sortBy -> поле ресурса по умолчанию; незнакомое поле -> ErrInvalidArgument;
// - previous без курсора -> ErrInvalidArgument.
//
// Ошибки:
// - ErrInvalidCursor — битый курсор или курсор другой сортировки;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) ListPage(ctx context.Context, def models.Definition, q PageQuery) (*models.CursorPage[models.Document], error) {
	const op = "service.queries.ListPage"

	lg := log.From(ctx)
	lg.Info("list_page_request",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.Int("limit", q.Limit),
		slog.String("direction", q.Direction),
		slog.String("sort_by", q.SortBy),
		slog.Bool("has_cursor", q.Cursor != ""),
	)

	if q.Limit < 0 {
		return nil, fmt.Errorf("%s: %w: negative limit", op, ErrInvalidArgument)
	}

	if q.Limit == 0 {
		q.Limit = s.limits.Default
	}

	if s.limits.Max > 0 && q.Limit > s.limits.Max {
		q.Limit = s.limits.Max
	}

	dir, err := pagination.ParseDirection(q.Direction)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	srt, err := def.ParseSort(q.SortBy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if dir == pagination.Previous && q.Cursor == "" {
		return nil, fmt.Errorf("%s: %w: previous page requires a cursor", op, ErrInvalidArgument)
	}

	docs, err := s.repo.All(ctx, def.Name)
	if err != nil {
		lg.Error("list_page_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page, err := pagination.Paginate(docs, pagination.Request{
		Cursor:    q.Cursor,
		Limit:     q.Limit,
		Direction: dir,
		Sort:      srt,
	}, documentAccessor)
	if err != nil {
		switch {
		case errors.Is(err, pagination.ErrInvalidCursor):
			lg.Warn("list_page_invalid_cursor",
				slog.String("op", op),
			)

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCursor)
		case errors.Is(err, pagination.ErrInvalidArgument):
			return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := &models.CursorPage[models.Document]{
		Items:          page.Items,
		NextCursor:     optional(page.NextCursor),
		PreviousCursor: optional(page.PreviousCursor),
		HasMore:        page.HasMore,
	}

	lg.Info("list_page_ok",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.Int("items", len(out.Items)),
		slog.Bool("has_more", out.HasMore),
	)

	return out, nil
}

// ByID возвращает запись по идентификатору.
//
// Ошибки:
// - ErrInvalidArgument — пустой id;
// - ErrNotFound — если запись отсутствует (маппинг storage.ErrNotFound).
func (s *Service) ByID(ctx context.Context, def models.Definition, id string) (models.Document, error) {
	const op = "service.queries.ByID"

	if id == "" {
		return nil, fmt.Errorf("%s: %w: empty id", op, ErrInvalidArgument)
	}

	lg := log.From(ctx)

	doc, err := s.repo.ByID(ctx, def.Name, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("by_id_not_found",
				slog.String("op", op),
				slog.String("resource", def.Name),
				slog.String("id", id),
			)

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("by_id_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
