// storage — контракт хранилища медиафайлов (изображения и видео ранов,
// аватары, обложки постов). Файл адресуется парой container/name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

var (
	// ErrInvalidArgument — пустое или небезопасное имя файла/контейнера.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Storage — загрузка, удаление и проверка наличия файла.
type Storage interface {
	// Upload сохраняет поток r под name в container и возвращает URL файла.
	// size < 0 — размер неизвестен.
	Upload(ctx context.Context, r io.Reader, size int64, name, container string) (string, error)
	// Delete удаляет файл; false — файла не было.
	Delete(ctx context.Context, name, container string) (bool, error)
	// Exists сообщает, есть ли файл.
	Exists(ctx context.Context, name, container string) (bool, error)
}

// ObjectKey строит ключ объекта "container/name".
// Пустое имя, абсолютные пути и выход за пределы контейнера через ".." недопустимы.
func ObjectKey(name, container string) (string, error) {
	name = strings.TrimSpace(name)
	container = strings.Trim(strings.TrimSpace(container), "/")

	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidArgument)
	}

	for _, part := range []string{name, container} {
		if strings.HasPrefix(part, "/") || strings.Contains(part, "\\") {
			return "", fmt.Errorf("%w: unsafe path %q", ErrInvalidArgument, part)
		}

		for _, seg := range strings.Split(part, "/") {
			if seg == ".." {
				return "", fmt.Errorf("%w: unsafe path %q", ErrInvalidArgument, part)
			}
		}
	}

	return path.Join(container, name), nil
}

// ContentType — MIME-тип по расширению; неизвестное -> application/octet-stream.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
