// postgres предоставляет реализацию storage.Repository на базе PostgreSQL:
// документы ресурсов хранятся в одной таблице как JSONB.
package postgres

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

type Store struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Store, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db}, nil
}

// Close закрывает пул соединений.
// Должен вызываться при остановке приложения.
func (s *Store) Close() {
	s.db.Close()
}

// Migrate применяет встроенные up-миграции по порядку имён.
// Миграции идемпотентны, повторный вызов безопасен.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "storage.postgres.Migrate"

	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range entries {
		sql, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := s.db.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: %s: %w", op, e.Name(), err)
		}
	}

	return nil
}

func (s *Store) All(ctx context.Context, resource string) ([]models.Document, error) {
	const op = "storage.postgres.All"

	rows, err := s.db.Query(ctx, `SELECT body FROM documents WHERE resource = $1`, strings.ToLower(resource))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		d, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Store) ByID(ctx context.Context, resource, id string) (models.Document, error) {
	const op = "storage.postgres.ByID"

	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE resource = $1 AND id = $2`,
		strings.ToLower(resource), id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

func (s *Store) Insert(ctx context.Context, resource string, doc models.Document) error {
	const op = "storage.postgres.Insert"

	id := doc.ID()
	if id == "" {
		return fmt.Errorf("%s: empty id", op)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (resource, id, body) VALUES ($1, $2, $3)`,
		strings.ToLower(resource), id, raw,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return storage.ErrConflict
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Replace(ctx context.Context, resource string, doc models.Document) error {
	const op = "storage.postgres.Replace"

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE documents SET body = $3, updated_at = now() WHERE resource = $1 AND id = $2`,
		strings.ToLower(resource), doc.ID(), raw,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, resource, id string) error {
	const op = "storage.postgres.Delete"

	tag, err := s.db.Exec(ctx,
		`DELETE FROM documents WHERE resource = $1 AND id = $2`,
		strings.ToLower(resource), id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// decode сохраняет числа как json.Number, как и in-memory хранилище.
func decode(raw []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var d models.Document
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}

	return d, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Repository = (*Store)(nil)
