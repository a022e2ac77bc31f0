package problem

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestWrite_AddsRequestIDAndContentType(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	p := New(http.StatusBadRequest, "bad input")
	p.Errors = map[string][]string{"name": {"is required"}}
	Write(rr, req, p)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	var got Problem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "Bad Request", got.Title)
	require.Equal(t, 400, got.Status)
	require.Equal(t, "bad input", got.Detail)
	require.Equal(t, []string{"is required"}, got.Errors["name"])
	require.Equal(t, "rid-1", got.RequestID)
}

func TestNew_ClientClosedTitle(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Client Closed Request", New(StatusClientClosedRequest, "").Title)
}
