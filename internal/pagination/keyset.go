package pagination

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Accessor извлекает из записи Id и значение поля сортировки.
type Accessor[T any] struct {
	ID    func(item T) string
	Value func(item T, field string) any
}

// Request — параметры запроса одной страницы.
// Cursor == "" при Next означает первую страницу.
type Request struct {
	Cursor    string
	Limit     int
	Direction Direction
	Sort      Sort
}

// Page — страница результатов и курсоры соседних страниц.
// Пустой курсор означает, что в эту сторону записей нет.
type Page[T any] struct {
	Items          []T
	NextCursor     string
	PreviousCursor string
	HasMore        bool
}

// Paginate возвращает страницу items в порядке req.Sort с тай-брейком по Id.
//
// Next без курсора — первая страница; Next с курсором — записи строго после якоря;
// Previous с курсором — последние Limit записей строго до якоря. Курсор пустой
// страницы включает сам якорь.
// Previous без курсора — ErrInvalidArgument: «последней страницы» без курсора нет.
func Paginate[T any](items []T, req Request, acc Accessor[T]) (Page[T], error) {
	const op = "pagination.Paginate"

	if req.Limit <= 0 {
		return Page[T]{}, fmt.Errorf("%s: %w: limit must be positive", op, ErrInvalidArgument)
	}

	dir := req.Direction
	if dir == "" {
		dir = Next
	}

	if dir != Next && dir != Previous {
		return Page[T]{}, fmt.Errorf("%s: %w: direction %q", op, ErrInvalidArgument, dir)
	}

	if req.Sort.Field == "" {
		return Page[T]{}, fmt.Errorf("%s: %w: empty sort field", op, ErrInvalidArgument)
	}

	if dir == Previous && req.Cursor == "" {
		return Page[T]{}, fmt.Errorf("%s: %w: previous page requires a cursor", op, ErrInvalidArgument)
	}

	var cur *anchor
	if req.Cursor != "" {
		a, err := decodeCursor(req.Cursor, req.Sort)
		if err != nil {
			return Page[T]{}, fmt.Errorf("%s: %w", op, err)
		}
		cur = &a
	}

	keyOf := keyFunc(req.Sort, acc)
	sorted := sortedBy(items, req.Sort, keyOf)

	n := len(sorted)
	var start, end int

	switch dir {
	case Next:
		if cur != nil {
			start = sort.Search(n, func(i int) bool {
				c := compareAnchors(keyOf(sorted[i]), *cur, req.Sort.Desc)
				return c > 0 || (cur.Incl && c == 0)
			})
		}
		end = min(start+req.Limit, n)
	case Previous:
		end = sort.Search(n, func(i int) bool {
			c := compareAnchors(keyOf(sorted[i]), *cur, req.Sort.Desc)
			return c > 0 || (!cur.Incl && c == 0)
		})
		start = max(0, end-req.Limit)
	}

	page := Page[T]{Items: make([]T, 0, end-start)}
	page.Items = append(page.Items, sorted[start:end]...)

	// Якоря соседних страниц. Для пустой страницы используется входной якорь
	// с обратной включительностью, чтобы вернуться к тем же записям, что
	// лежали по другую сторону от него.
	if end < n {
		a := reversed(cur)
		if end > start {
			k := keyOf(sorted[end-1])
			a = &k
		}
		if a != nil {
			token, err := encodeCursor(req.Sort, *a)
			if err != nil {
				return Page[T]{}, fmt.Errorf("%s: %w", op, err)
			}
			page.NextCursor = token
		}
	}

	if start > 0 {
		a := reversed(cur)
		if end > start {
			k := keyOf(sorted[start])
			a = &k
		}
		if a != nil {
			token, err := encodeCursor(req.Sort, *a)
			if err != nil {
				return Page[T]{}, fmt.Errorf("%s: %w", op, err)
			}
			page.PreviousCursor = token
		}
	}

	switch dir {
	case Next:
		page.HasMore = page.NextCursor != ""
	case Previous:
		page.HasMore = page.PreviousCursor != ""
	}

	return page, nil
}

// reversed — входной якорь для курсора в обратную сторону: записи, не
// вошедшие в пустую страницу, при обратном обходе должны войти.
func reversed(cur *anchor) *anchor {
	if cur == nil {
		return nil
	}

	a := *cur
	a.Incl = !a.Incl
	return &a
}

// Sorted возвращает копию items в полном порядке выдачи: поле s, затем Id по возрастанию.
func Sorted[T any](items []T, s Sort, acc Accessor[T]) []T {
	return sortedBy(items, s, keyFunc(s, acc))
}

func keyFunc[T any](s Sort, acc Accessor[T]) func(T) anchor {
	return func(item T) anchor {
		id := acc.ID(item)
		if isIDField(s.Field) {
			return anchor{Value: idValue(id), ID: id}
		}
		return anchor{Value: normalize(acc.Value(item, s.Field)), ID: id}
	}
}

func sortedBy[T any](items []T, s Sort, keyOf func(T) anchor) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return compareAnchors(keyOf(a), keyOf(b), s.Desc)
	})

	return sorted
}

// compareAnchors задаёт полный порядок: значение поля (с учётом desc),
// затем Id по возрастанию независимо от направления сортировки.
func compareAnchors(a, b anchor, desc bool) int {
	c := compareValues(a.Value, b.Value)
	if desc {
		c = -c
	}

	if c != 0 {
		return c
	}

	return compareIDs(a.ID, b.ID)
}

func isIDField(field string) bool {
	return strings.EqualFold(field, "id")
}

// idValue — значение Id как поля сортировки: целые id сравниваются как числа.
func idValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return float64(n)
	}

	return id
}
