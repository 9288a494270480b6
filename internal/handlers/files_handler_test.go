package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/photogallery/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFilesServer(t *testing.T) (*chi.Mux, *storage.LocalStorage) {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	r := chi.NewRouter()
	NewFilesHandler(store, logger).RegisterRoutes(r)
	return r, store
}

func TestFilesHandler_Serve(t *testing.T) {
	router, store := newFilesServer(t)

	w, err := store.Create("123-000000001.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(w, "jpeg-bytes")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("GET", "/uploads/123-000000001.jpg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestFilesHandler_Serve_NotFound(t *testing.T) {
	router, _ := newFilesServer(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: "/uploads/999-000000000.jpg"},
		{name: "dot dot", path: "/uploads/.."},
		{name: "encoded traversal", path: "/uploads/..%2fsecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}
