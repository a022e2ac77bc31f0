package models

// CursorPage — конверт курсорной выдачи.
//
// Особенности:
//   - NextCursor/PreviousCursor == nil — в эту сторону записей нет;
//   - HasMore — есть ли курсор в запрошенном направлении;
//   - Items никогда не nil после декодирования клиентом.
type CursorPage[T any] struct {
	Items          []T     `json:"items"`
	NextCursor     *string `json:"nextCursor"`
	PreviousCursor *string `json:"previousCursor"`
	HasMore        bool    `json:"hasMore"`
}

// PageRequest — параметры запроса страницы.
//
// Особенности:
//   - Limit == 0 -> значение по умолчанию; Limit < 0 -> ошибка; больше максимума -> обрезается;
//   - Direction: "next" (по умолчанию) или "previous";
//   - SortBy: поле ресурса без учёта регистра, опционально с суффиксом ":asc"/":desc";
//     пустое значение -> сортировка ресурса по умолчанию;
//   - Cursor == "" при Direction == "previous" недопустим.
type PageRequest struct {
	Cursor    string
	Limit     int
	Direction string
	SortBy    string
}

// DeleteResult — итог удаления. NotFound-ответ считается успехом.
type DeleteResult struct {
	OK       bool
	NotFound bool
	Message  string
}
