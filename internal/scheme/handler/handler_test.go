package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onegov/internal/scheme/catalog"
	"onegov/internal/scheme/eligibility"
	"onegov/internal/scheme/service"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	c, err := catalog.Load("")
	require.NoError(t, err)
	e, err := eligibility.NewEngine()
	require.NoError(t, err)
	r := chi.NewRouter()
	New(service.New(c, e), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestListSchemes(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/schemes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Schemes []map[string]any `json:"schemes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Schemes, 10)
	assert.Equal(t, "pm-kisan", body.Schemes[0]["id"])
}

func TestGetScheme(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/schemes/skill-india", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Skill India Mission")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/schemes/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
