package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-board/internal/model"
	"task-board/internal/repository"
	"task-board/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := repository.NewFileStore(filepath.Join(t.TempDir(), "data", "app-data.json"))
	return NewServer(service.NewStoreService(store, nil), nil, "")
}

func do(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDoc(t *testing.T, rec *httptest.ResponseRecorder) model.Document {
	t.Helper()
	var doc model.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGetSeedsDocument(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeDoc(t, rec)
	assert.Len(t, doc.Users, 4)
	assert.Empty(t, doc.Events)
	assert.Empty(t, doc.Comments)
	assert.Contains(t, rec.Body.String(), `"events":[]`)
}

func TestPostAddEvent(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, `{"action":"ADD_EVENT","payload":{"title":"Ship order","deadline":"2025-06-01","time":"09:00","assignedUserId":"u1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeDoc(t, rec)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, "Ship order", doc.Events[0].Title)
	assert.Equal(t, model.StatusPending, doc.Events[0].Status)
	assert.NotEmpty(t, doc.Events[0].ID)

	again := decodeDoc(t, do(t, srv, http.MethodGet, ""))
	assert.Equal(t, doc.Events, again.Events)
}

func TestPostRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid action", `{"action":"FOO","payload":{}}`, "invalid action"},
		{"missing action", `{"payload":{}}`, "invalid action"},
		{"duplicate user", `{"action":"ADD_USER","payload":{"name":"X","email":"sales@example.com","password":"p"}}`, "user already exists"},
		{"malformed body", `{"action":`, msgInvalidRequest},
		{"empty body", ``, msgInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			before := do(t, srv, http.MethodGet, "").Body.String()

			rec := do(t, srv, http.MethodPost, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decodeErr(t, rec))

			assert.Equal(t, before, do(t, srv, http.MethodGet, "").Body.String())
		})
	}
}

func TestPostEmailTaken(t *testing.T) {
	srv := newTestServer(t)
	doc := decodeDoc(t, do(t, srv, http.MethodGet, ""))

	body := `{"action":"UPDATE_USER","payload":{"id":"` + doc.Users[1].ID + `","updates":{"email":"finance@example.com"}}}`
	rec := do(t, srv, http.MethodPost, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", decodeErr(t, rec))
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (model.Document, error) {
	return model.Document{}, errors.New("disk on fire")
}

func (brokenStore) Dispatch(context.Context, model.Action, json.RawMessage) (model.Document, error) {
	return model.Document{}, service.ErrStorage
}

func (brokenStore) Driver() string { return "broken" }

func TestInternalErrors(t *testing.T) {
	srv := NewServer(brokenStore{}, nil, "")

	rec := do(t, srv, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgReadFailed, decodeErr(t, rec))

	rec = do(t, srv, http.MethodPost, `{"action":"DELETE_USER","payload":{"id":"1"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgInternal, decodeErr(t, rec))
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthResponse{Status: "ok", Driver: "file"}, health)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	do(t, srv, http.MethodGet, "")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskboard_store_read_failures_total")
}

func TestRunStopsOnCancel(t *testing.T) {
	store := repository.NewFileStore(filepath.Join(t.TempDir(), "app-data.json"))
	srv := NewServer(service.NewStoreService(store, nil), nil, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
