// problem пишет ошибки HTTP-слоя в формате ProblemDetails:
// {"title":..,"status":..,"detail":..,"errors":{field:[msg]},"requestId":..}.
// Этот же формат разбирает apiclient.
package problem

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Problem — тело ответа об ошибке.
type Problem struct {
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	Detail    string              `json:"detail,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

// New — Problem со стандартным заголовком для статуса.
func New(status int, detail string) Problem {
	title := http.StatusText(status)
	if status == StatusClientClosedRequest {
		title = "Client Closed Request"
	}

	return Problem{Title: title, Status: status, Detail: detail}
}

// Write пишет p с Content-Type application/problem+json,
// добавляя request id из заголовка X-Request-Id, если он есть.
func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		p.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
