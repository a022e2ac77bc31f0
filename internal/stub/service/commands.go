package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
	"github.com/pribylovaa/courtside/pkg/log"
)

// Create проверяет запись, назначает Id (UUID) и сохраняет её.
//
// Проверки:
// - Id задаёт только сервер: переданный клиентом Id -> ошибка поля id;
// - обязательные поля ресурса не пусты.
//
// Если ресурс сортируется по CreatedDate и поле не передано, оно заполняется текущим временем.
func (s *Service) Create(ctx context.Context, def models.Definition, doc models.Document) (models.Document, error) {
	const op = "service.commands.Create"

	if doc == nil {
		return nil, fmt.Errorf("%s: %w: empty body", op, ErrInvalidArgument)
	}

	lg := log.From(ctx)

	var verr ValidationError
	if doc.ID() != "" {
		verr.add("id", "must not be set by the client")
	}

	for _, f := range def.Required {
		if isBlank(doc, f) {
			verr.add(f, "is required")
		}
	}

	if len(verr.Fields) > 0 {
		lg.Info("create_validation_failed",
			slog.String("op", op),
			slog.String("resource", def.Name),
			slog.Int("fields", len(verr.Fields)),
		)

		return nil, fmt.Errorf("%s: %w", op, &verr)
	}

	out := doc.Clone()
	out.Set("id", uuid.NewString())

	if hasSortField(def, "CreatedDate") && isBlank(out, "createdDate") {
		out.Set("createdDate", s.now().UTC().Format(time.RFC3339Nano))
	}

	if err := s.repo.Insert(ctx, def.Name, out); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}

		lg.Error("create_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("create_ok",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.String("id", out.ID()),
	)

	return out, nil
}

// Update заменяет запись целиком; Id обязателен и должен существовать.
func (s *Service) Update(ctx context.Context, def models.Definition, doc models.Document) error {
	const op = "service.commands.Update"

	if doc == nil {
		return fmt.Errorf("%s: %w: empty body", op, ErrInvalidArgument)
	}

	var verr ValidationError
	if doc.ID() == "" {
		verr.add("id", "is required")
	}

	for _, f := range def.Required {
		if isBlank(doc, f) {
			verr.add(f, "is required")
		}
	}

	if len(verr.Fields) > 0 {
		return fmt.Errorf("%s: %w", op, &verr)
	}

	lg := log.From(ctx)

	if err := s.repo.Replace(ctx, def.Name, doc); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("update_not_found",
				slog.String("op", op),
				slog.String("resource", def.Name),
				slog.String("id", doc.ID()),
			)

			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("update_ok",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.String("id", doc.ID()),
	)

	return nil
}

// Delete удаляет запись по id.
func (s *Service) Delete(ctx context.Context, def models.Definition, id string) error {
	const op = "service.commands.Delete"

	if id == "" {
		return fmt.Errorf("%s: %w: empty id", op, ErrInvalidArgument)
	}

	lg := log.From(ctx)

	if err := s.repo.Delete(ctx, def.Name, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("delete_not_found",
				slog.String("op", op),
				slog.String("resource", def.Name),
				slog.String("id", id),
			)

			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("delete_ok",
		slog.String("op", op),
		slog.String("resource", def.Name),
		slog.String("id", id),
	)

	return nil
}

func isBlank(d models.Document, field string) bool {
	v, ok := d.Field(field)
	if !ok || v == nil {
		return true
	}

	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	return false
}

func hasSortField(def models.Definition, name string) bool {
	for _, f := range def.SortFields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}

	return false
}
