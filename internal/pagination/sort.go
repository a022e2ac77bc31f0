// pagination реализует курсорную (keyset) пагинацию, общую для всех ресурсов.
//
// Порядок выдачи задаётся полем сортировки (sortBy) и его направлением;
// при равных значениях поля записи упорядочиваются по Id по возрастанию,
// одинаково для обоих направлений обхода. Курсор — непрозрачный токен
// (base64url от JSON), якорящийся на паре (значение поля, Id) конкретной записи,
// а не на смещении.
//
// Известное ограничение: если между запросами страниц записи вставляются
// или удаляются, курсор остаётся валидным, но соседние с якорем записи
// могут однократно повториться или пропуститься.
package pagination

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCursor — битый, чужой или выпущенный для другой сортировки курсор.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArgument — некорректные параметры запроса страницы.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Direction — направление обхода относительно курсора.
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// ParseDirection разбирает направление; пустая строка трактуется как Next.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Next:
		return Next, nil
	case Previous:
		return Previous, nil
	default:
		return "", fmt.Errorf("%w: direction %q", ErrInvalidArgument, raw)
	}
}

// SortField — поле, по которому ресурс разрешает сортировать выдачу.
// Desc задаёт порядок по умолчанию.
type SortField struct {
	Name string
	Desc bool
}

// Sort — разобранный параметр sortBy.
type Sort struct {
	Field string
	Desc  bool
	// Explicit — порядок указан суффиксом явно (":asc"/":desc").
	Explicit bool
}

// String возвращает каноническую форму для query-параметра sortBy.
func (s Sort) String() string {
	if !s.Explicit {
		return s.Field
	}

	if s.Desc {
		return s.Field + ":desc"
	}

	return s.Field + ":asc"
}

// ParseSort сопоставляет sortBy с разрешёнными полями ресурса.
//
// Формат: "<Field>" или "<Field>:asc" / "<Field>:desc"; имя поля
// регистронезависимо и приводится к зарегистрированному написанию.
// Пустой raw означает поле fallback. Незнакомое поле — ошибка, без
// молчаливой подмены на поле по умолчанию.
func ParseSort(raw string, allowed []SortField, fallback string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}

	name, order, hasOrder := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)

	for _, f := range allowed {
		if !strings.EqualFold(f.Name, name) {
			continue
		}

		s := Sort{Field: f.Name, Desc: f.Desc}
		if hasOrder {
			switch strings.ToLower(strings.TrimSpace(order)) {
			case "asc":
				s.Desc = false
			case "desc":
				s.Desc = true
			default:
				return Sort{}, fmt.Errorf("%w: sort order %q", ErrInvalidArgument, order)
			}
			s.Explicit = true
		}

		return s, nil
	}

	return Sort{}, fmt.Errorf("%w: unknown sort field %q", ErrInvalidArgument, name)
}
