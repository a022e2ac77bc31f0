// service содержит бизнес-логику stub-бэкенда: курсорную выдачу,
// валидацию создаваемых записей и CRUD поверх storage.Repository.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pribylovaa/courtside/internal/config"
	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/pagination"
	"github.com/pribylovaa/courtside/internal/stub/storage"
)

var (
	// ErrNotFound — запись отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCursor — битый/чужой курсор.
	// Транспорт: 400.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArgument — некорректные параметры запроса.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidation — запись не прошла проверку; детали в *ValidationError.
	// Транспорт: 400 с полевыми сообщениями.
	ErrValidation = errors.New("validation failed")
	// ErrConflict — запись с таким Id уже есть.
	// Транспорт: 409.
	ErrConflict = errors.New("conflict")
)

// ValidationError — полевые ошибки проверки записи.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}

	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Service — бизнес-логика stub-бэкенда.
type Service struct {
	repo   storage.Repository
	limits config.LimitsConfig
	now    func() time.Time
}

// New создает новый экземпляр Service.
func New(repo storage.Repository, limits config.LimitsConfig) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		now:    time.Now,
	}
}

// documentAccessor — доступ к Id и полям документа для keyset-пагинации.
// Строки-даты приводятся к time.Time, чтобы разные форматы сравнивались хронологически.
var documentAccessor = pagination.Accessor[models.Document]{
	ID: func(d models.Document) string { return d.ID() },
	Value: func(d models.Document, field string) any {
		v, _ := d.Field(field)
		if s, ok := v.(string); ok && looksLikeDate(s) {
			if t, err := models.ParseTime(s); err == nil {
				return t.Time
			}
		}
		return v
	},
}

// looksLikeDate — дешёвый фильтр перед разбором: YYYY-MM-DD в начале строки.
func looksLikeDate(s string) bool {
	if len(s) < 10 || s[4] != '-' || s[7] != '-' {
		return false
	}

	for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
