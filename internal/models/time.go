package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Форматы дат, которые встречаются в ответах бэкенда: с зоной,
// без зоны (трактуется как UTC) и только дата.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time — метка времени с терпимым разбором.
// null и пустая строка дают нулевое значение.
type Time struct {
	time.Time
}

// NewTime оборачивает t, приводя к UTC.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// ParseTime разбирает строку в одном из поддерживаемых форматов.
func ParseTime(s string) (Time, error) {
	if s == "" {
		return Time{}, nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTime(t), nil
		}
	}

	return Time{}, fmt.Errorf("unsupported time format %q", s)
}

// UnmarshalJSON принимает строку в одном из timeLayouts или null.
func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Time{}
		return nil
	}

	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

// MarshalJSON пишет RFC3339 в UTC; нулевое значение — null.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}
