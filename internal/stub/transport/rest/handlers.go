package rest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/service"
	"github.com/pribylovaa/courtside/pkg/log"
	"github.com/pribylovaa/courtside/pkg/redact"
)

// maxBodyBytes — предел тела Create/Update.
const maxBodyBytes = 1 << 20

// Handlers — HTTP-обработчики ресурсов поверх service.Service.
type Handlers struct {
	svc *service.Service
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// List — GET Get{R}s.
func (h *Handlers) List(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.svc.List(r.Context(), def)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, docs)
	}
}

// ListPage — GET Get{R}sWithCursor?cursor=&limit=&direction=&sortBy=.
func (h *Handlers) ListPage(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var limit int
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				WriteError(w, r, fmt.Errorf("%w: limit %q", errInvalidRequest, v))
				return
			}

			limit = n
		}

		page, err := h.svc.ListPage(r.Context(), def, service.PageQuery{
			Cursor:    q.Get("cursor"),
			Limit:     limit,
			Direction: q.Get("direction"),
			SortBy:    q.Get("sortBy"),
		})
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// ByID — GET Get{R}ById?id=.
func (h *Handlers) ByID(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.svc.ByID(r.Context(), def, strings.TrimSpace(r.URL.Query().Get("id")))
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, doc)
	}
}

// Create — POST Create{R}; 201 и сохранённая запись.
func (h *Handlers) Create(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeDocument(w, r)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		if email, ok := doc.Field("email"); ok {
			if s, ok := email.(string); ok {
				log.From(r.Context()).Debug("create_request",
					slog.String("resource", def.Name),
					slog.String("email", redact.Email(s)),
				)
			}
		}

		created, err := h.svc.Create(r.Context(), def, doc)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// Update — POST Update{R}; 200 и литерал true.
func (h *Handlers) Update(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeDocument(w, r)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		if err := h.svc.Update(r.Context(), def, doc); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, true)
	}
}

// Delete — DELETE Delete{R}?id=; 200 и литерал true, 404 если записи нет.
func (h *Handlers) Delete(def models.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), def, strings.TrimSpace(r.URL.Query().Get("id"))); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, true)
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeDocument читает тело как документ; числа остаются json.Number,
// чтобы целые Id и счётчики не превращались во float64.
func decodeDocument(w http.ResponseWriter, r *http.Request) (models.Document, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", errInvalidRequest)
		}

		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: body must be a json object", errInvalidRequest)
	}

	return doc, nil
}
