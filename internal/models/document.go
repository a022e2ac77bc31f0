package models

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Document — запись ресурса в нетипизированном виде, как её хранит stub-бэкенд.
// Поиск полей регистронезависимый.
type Document map[string]any

// Field возвращает значение поля name (без учёта регистра).
func (d Document) Field(name string) (any, bool) {
	if v, ok := d[name]; ok {
		return v, true
	}

	for k, v := range d {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}

	return nil, false
}

// Key возвращает фактическое написание ключа name в документе.
func (d Document) Key(name string) (string, bool) {
	if _, ok := d[name]; ok {
		return name, true
	}

	for k := range d {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}

	return "", false
}

// Set записывает поле, сохраняя уже существующее написание ключа.
func (d Document) Set(name string, v any) {
	if k, ok := d.Key(name); ok {
		d[k] = v
		return
	}

	d[name] = v
}

// ID возвращает Id документа строкой (числовые id тоже поддерживаются).
func (d Document) ID() string {
	v, ok := d.Field("id")
	if !ok || v == nil {
		return ""
	}

	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// Clone — поверхностная копия документа.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	return maps.Clone(d)
}
