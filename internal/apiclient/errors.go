package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

var (
	// ErrUnauthorized — токен отсутствует, невалиден или истёк (401); нужна повторная аутентификация.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — токен валиден, но прав недостаточно (403); повтор бесполезен.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — сущность с таким id отсутствует (404).
	ErrNotFound = errors.New("not found")
	// ErrValidation — бэкенд отклонил данные запроса (400); детали в *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream — прочие не-2xx ответы бэкенда (в первую очередь 5xx).
	ErrUpstream = errors.New("upstream error")
	// ErrTransport — сеть, DNS, таймаут транспорта.
	ErrTransport = errors.New("transport error")
	// ErrCanceled — вызов отменён вызывающей стороной.
	ErrCanceled = errors.New("canceled")
	// ErrInvalidArgument — некорректные параметры вызова; в сеть такой запрос не уходит.
	ErrInvalidArgument = errors.New("invalid argument")
)

// maxMessageLen — предел длины серверного сообщения в ошибке.
const maxMessageLen = 512

// StatusError — не-2xx ответ бэкенда.
// Unwrap возвращает сентинел, соответствующий коду статуса.
type StatusError struct {
	Op      string
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Err, e.Code)
	}

	return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Err, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Err }

// ValidationError — 400 с полевыми сообщениями.
type ValidationError struct {
	Op      string
	Message string
	// Fields — имя поля -> сообщения.
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(ErrValidation.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(strings.Join(e.Fields[k], ", "))
		}
		b.WriteString("]")
	}

	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// problem — тело ошибки бэкенда. Поддерживаются ProblemDetails
// (title/detail/errors) и упрощённые варианты с message/error.
type problem struct {
	Title   string              `json:"title"`
	Detail  string              `json:"detail"`
	Message string              `json:"message"`
	Error   json.RawMessage     `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// parseProblem достаёт из тела ответа сообщение и полевые ошибки.
// Неструктурированное тело становится сообщением целиком (с обрезкой).
func parseProblem(body []byte) (string, map[string][]string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var p problem
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return truncate(strings.Trim(trimmed, `"`)), nil
	}

	msg := firstNonEmpty(p.Detail, p.Message, p.Title, errorField(p.Error))
	return truncate(msg), p.Errors
}

// errorField разбирает поле error: строка или объект {message}/{code,message}.
func errorField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstNonEmpty(obj.Message, obj.Code)
	}

	return ""
}

// classify превращает не-2xx ответ в типизированную ошибку по коду статуса.
func classify(op string, code int, body []byte) error {
	msg, fields := parseProblem(body)

	var sentinel error
	switch {
	case code == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case code == http.StatusForbidden:
		sentinel = ErrForbidden
	case code == http.StatusNotFound:
		sentinel = ErrNotFound
	case code == http.StatusBadRequest:
		return &ValidationError{Op: op, Message: msg, Fields: fields}
	default:
		sentinel = ErrUpstream
	}

	return &StatusError{Op: op, Code: code, Message: msg, Err: sentinel}
}

// messageOf — сообщение для DeleteResult/логов.
func messageOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return http.StatusText(se.Code)
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Message != "" {
			return ve.Message
		}
		return ErrValidation.Error()
	}

	return err.Error()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}

	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "…"
}
