package apiclient

import (
	"context"
	"fmt"
	"strings"
)

// TokenSource выдаёт bearer-токен для очередного вызова.
// Выпуск и обновление токена — забота реализации; клиент токены не кэширует.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc адаптирует функцию к TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken — неизменный токен (CLI, тесты).
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", fmt.Errorf("apiclient.StaticToken: %w: empty token", ErrInvalidArgument)
	}

	return string(t), nil
}
