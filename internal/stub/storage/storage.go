// storage определяет контракт хранилища записей stub-бэкенда.
package storage

//go:generate mockgen -source=storage.go -destination=../../../mocks/mock_repository.go -package=mocks

import (
	"context"
	"errors"

	"github.com/pribylovaa/courtside/internal/models"
)

var (
	// ErrNotFound — запись отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — запись с таким Id уже существует.
	ErrConflict = errors.New("conflict")
)

// Repository хранит документы ресурсов. Имя ресурса регистронезависимое.
// Реализация возвращает копии: изменение результата не меняет хранилище.
type Repository interface {
	// All возвращает все документы ресурса в произвольном порядке.
	All(ctx context.Context, resource string) ([]models.Document, error)
	// ByID возвращает документ по Id; ErrNotFound, если его нет.
	ByID(ctx context.Context, resource, id string) (models.Document, error)
	// Insert добавляет документ; ErrConflict, если Id занят.
	Insert(ctx context.Context, resource string, doc models.Document) error
	// Replace заменяет документ целиком; ErrNotFound, если его нет.
	Replace(ctx context.Context, resource string, doc models.Document) error
	// Delete удаляет документ; ErrNotFound, если его нет.
	Delete(ctx context.Context, resource, id string) error
}
