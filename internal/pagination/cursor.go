package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// cursorVersion — версия формата токена.
const cursorVersion = 1

// anchor — позиция записи в полном порядке выдачи: значение поля сортировки и Id.
// Incl — сама запись-якорь входит в страницу; выставляется, когда курсор
// пустой страницы переиспользует входной якорь для обратного направления.
type anchor struct {
	Value any
	ID    string
	Incl  bool
}

// cursorPayload — содержимое курсора до кодирования.
// Поле и порядок сортировки входят в токен, чтобы курсор от одной
// сортировки нельзя было применить к другой.
type cursorPayload struct {
	Version int    `json:"v"`
	Field   string `json:"f"`
	Desc    bool   `json:"d,omitempty"`
	Value   any    `json:"k"`
	ID      string `json:"id"`
	Incl    bool   `json:"incl,omitempty"`
}

// encodeCursor кодирует якорь в непрозрачный токен для клиента.
func encodeCursor(s Sort, a anchor) (string, error) {
	raw, err := json.Marshal(cursorPayload{
		Version: cursorVersion,
		Field:   s.Field,
		Desc:    s.Desc,
		Value:   a.Value,
		ID:      a.ID,
		Incl:    a.Incl,
	})
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeCursor декодирует токен обратно в якорь и проверяет,
// что он выпущен для той же сортировки.
func decodeCursor(token string, s Sort) (anchor, error) {
	res, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return anchor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var p cursorPayload
	if err := json.Unmarshal(res, &p); err != nil {
		return anchor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if p.Version != cursorVersion {
		return anchor{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidCursor, p.Version)
	}

	if p.ID == "" {
		return anchor{}, fmt.Errorf("%w: empty id", ErrInvalidCursor)
	}

	if !strings.EqualFold(p.Field, s.Field) || p.Desc != s.Desc {
		return anchor{}, fmt.Errorf("%w: cursor minted for sort %q", ErrInvalidCursor, p.Field)
	}

	return anchor{Value: normalize(p.Value), ID: p.ID, Incl: p.Incl}, nil
}
