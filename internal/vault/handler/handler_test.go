package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onegov/internal/vault/service"
	"onegov/internal/vault/store"
	id "onegov/pkg/domain"
	"onegov/pkg/testutil"
)

func newRouter() chi.Router {
	h := New(service.New(store.NewInMemoryStore()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.RegisterCitizen(r)
	h.RegisterStaff(r)
	return r
}

func do(r chi.Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVaultFlow(t *testing.T) {
	r := newRouter()
	citizenID := id.NewCitizenID()

	body := []byte(`{"kind":"bank-passbook","file_name":"passbook.pdf","size_bytes":5120}`)
	w := do(r, testutil.AsCitizen(httptest.NewRequest(http.MethodPost, "/v1/vault/documents", bytes.NewReader(body)), citizenID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created["verification_status"])
	docID := created["id"].(string)

	w = do(r, testutil.AsCitizen(httptest.NewRequest(http.MethodGet, "/v1/vault/missing", nil), citizenID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"missing":["aadhaar","pan","income-certificate","photo"]}`, w.Body.String())

	verify := []byte(`{"decision":"rejected"}`)
	w = do(r, testutil.AsOfficer(httptest.NewRequest(http.MethodPost, "/v1/vault/documents/"+docID+"/verification", bytes.NewReader(verify))))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	verify = []byte(`{"decision":"rejected","remarks":"illegible"}`)
	w = do(r, testutil.AsOfficer(httptest.NewRequest(http.MethodPost, "/v1/vault/documents/"+docID+"/verification", bytes.NewReader(verify))))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verification_status":"rejected"`)

	w = do(r, testutil.AsCitizen(httptest.NewRequest(http.MethodDelete, "/v1/vault/documents/"+docID, nil), citizenID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, testutil.AsCitizen(httptest.NewRequest(http.MethodDelete, "/v1/vault/documents/"+docID, nil), citizenID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	r := newRouter()
	body := []byte(`{"kind":"passport","file_name":"p.pdf"}`)
	w := do(r, testutil.AsCitizen(httptest.NewRequest(http.MethodPost, "/v1/vault/documents", bytes.NewReader(body)), id.NewCitizenID()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyRejectsBadDecision(t *testing.T) {
	r := newRouter()
	body := []byte(`{"decision":"pending"}`)
	w := do(r, testutil.AsOfficer(httptest.NewRequest(http.MethodPost, "/v1/vault/documents/"+id.NewDocumentID().String()+"/verification", bytes.NewReader(body))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
