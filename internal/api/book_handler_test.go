package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/catalog"
	"libraryapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookMux(repo *mockBookRepo) *http.ServeMux {
	h := NewBookHandler(catalog.NewService(repo))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("POST /api/books", h.Create)
	mux.HandleFunc("GET /api/books/{id}", h.Get)
	mux.HandleFunc("PUT /api/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
	return mux
}

func TestBookHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("GetByISBN", mock.Anything, "9780123456786").Return(catalog.Book{}, catalog.ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]interface{}{
			"title":  "Test Book Title",
			"author": "Test Author",
			"isbn":   "9780123456786",
		}))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, true, resp.Body["success"])
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, "Test Book Title", data["title"])
		assert.Equal(t, true, data["available"])
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]interface{}{
			"author": "Test Author",
		}))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed ISBN fails validation", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]interface{}{
			"title":  "Test Book Title",
			"author": "Test Author",
			"isbn":   "not-an-isbn",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("duplicate ISBN maps to validation error", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("GetByISBN", mock.Anything, "9780123456786").Return(catalog.Book{ID: "other"}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]interface{}{
			"title":  "Test Book Title",
			"author": "Test Author",
			"isbn":   "9780123456786",
		}))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	})
}

func TestBookHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("Get", mock.Anything, testutil.TestBook.ID).Return(testutil.TestBook, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/api/books/"+testutil.TestBook.ID, nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, testutil.TestBook.ID, data["id"])
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("Get", mock.Anything, "missing").Return(catalog.Book{}, catalog.ErrNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/api/books/missing", nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusNotFound, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "NOT_FOUND", errBody["code"])
	})
}

func TestBookHandler_List(t *testing.T) {
	repo := new(mockBookRepo)
	mux := newBookMux(repo)

	repo.On("List", mock.Anything, catalog.Query{Search: "rose", AvailableOnly: true}).
		Return([]catalog.Book{testutil.TestBook}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/api/books?search=rose&available=true", nil))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	meta := resp.Body["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["count"])
}

func TestBookHandler_Delete(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("CountActiveLoans", mock.Anything, testutil.TestBook.ID).Return(0, nil)
		repo.On("Delete", mock.Anything, testutil.TestBook.ID).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodDelete, "/api/books/"+testutil.TestBook.ID, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("active loan blocks deletion", func(t *testing.T) {
		repo := new(mockBookRepo)
		mux := newBookMux(repo)

		repo.On("CountActiveLoans", mock.Anything, testutil.TestBook.ID).Return(1, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.NewRequest(http.MethodDelete, "/api/books/"+testutil.TestBook.ID, nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusConflict, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "CONFLICT", errBody["code"])
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
