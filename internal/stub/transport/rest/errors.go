package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/pribylovaa/courtside/internal/http/problem"
	"github.com/pribylovaa/courtside/internal/stub/service"
)

// errInvalidRequest — ошибка разбора запроса на уровне транспорта (query, тело).
var errInvalidRequest = errors.New("invalid request")

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и ProblemDetails.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500, чтобы не маскировать баг;
//   - *service.ValidationError - 400 с полевыми сообщениями в errors;
//   - ErrInvalidCursor, ErrInvalidArgument, errInvalidRequest - 400;
//   - ErrNotFound - 404;
//   - ErrConflict - 409;
//   - context.Canceled - 499, context.DeadlineExceeded - 504;
//   - прочее - 500 без утечки деталей.
func ToHTTP(err error) problem.Problem {
	if err == nil {
		return problem.New(http.StatusInternalServerError, "internal error")
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		p := problem.New(http.StatusBadRequest, "validation failed")
		p.Errors = verr.Fields
		return p
	}

	switch {
	case errors.Is(err, service.ErrInvalidCursor):
		return problem.New(http.StatusBadRequest, "invalid cursor")
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, errInvalidRequest):
		return problem.New(http.StatusBadRequest, "invalid argument")
	case errors.Is(err, service.ErrNotFound):
		return problem.New(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		return problem.New(http.StatusConflict, "already exists")
	case errors.Is(err, context.Canceled):
		return problem.New(problem.StatusClientClosedRequest, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return problem.New(http.StatusGatewayTimeout, "deadline exceeded")
	default:
		return problem.New(http.StatusInternalServerError, "internal error")
	}
}

// WriteError — хелпер для хендлеров.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	problem.Write(w, r, ToHTTP(err))
}
