package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/notion"
	"github.com/mrlokans/booknotion/internal/services"
)

type fakeBookService struct {
	books     []entities.Book
	searchErr error
	addErr    error
	mapping   notion.MappingResult

	lastQuery    string
	lastLanguage string
	added        []entities.Book
	hadDeadline  bool
}

func (f *fakeBookService) Search(ctx context.Context, query, language string) ([]entities.Book, error) {
	f.lastQuery = query
	f.lastLanguage = language
	_, f.hadDeadline = ctx.Deadline()
	return f.books, f.searchErr
}

func (f *fakeBookService) BestMatch(ctx context.Context, query string) (entities.Book, error) {
	books, err := f.Search(ctx, query, "")
	if err != nil {
		return entities.Book{}, err
	}
	if len(books) == 0 {
		return entities.Book{}, services.ErrNoBooksFound
	}
	return books[0], nil
}

func (f *fakeBookService) AddBook(ctx context.Context, book entities.Book) (*notion.AddBookResult, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, book)
	return &notion.AddBookResult{
		Response: &notion.PageResponse{ID: "page-1", URL: "https://www.notion.so/page-1"},
		Added:    []string{"Name"},
		Missing:  []string{"ISBN"},
	}, nil
}

func (f *fakeBookService) SearchAndAdd(ctx context.Context, query string) (*services.SearchAndAddResult, error) {
	book, err := f.BestMatch(ctx, query)
	if err != nil {
		return nil, err
	}
	result, err := f.AddBook(ctx, book)
	if err != nil {
		return nil, err
	}
	return &services.SearchAndAddResult{Book: book, Result: result, Message: services.AddedMessage(book, result)}, nil
}

func (f *fakeBookService) InspectSchema(ctx context.Context) (notion.MappingResult, error) {
	return f.mapping, f.addErr
}

func newTestRouter(service *fakeBookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Books:            service,
		Notion:           service,
		NotionConfigured: true,
		SystemLocale:     "de_DE.UTF-8",
		RequestTimeout:   5 * time.Second,
	})
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestBooksController_Search(t *testing.T) {
	t.Run("returns books", func(t *testing.T) {
		service := &fakeBookService{books: []entities.Book{{Title: "Dune", TotalPage: entities.PageCountFromInt(412)}}}
		w := doRequest(newTestRouter(service), "GET", "/api/books/search?q=dune", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dune", service.lastQuery)
		assert.Equal(t, "", service.lastLanguage)
		assert.True(t, service.hadDeadline)

		var response struct {
			Books []entities.Book `json:"books"`
			Count int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
		pages, ok := response.Books[0].TotalPage.Number()
		assert.True(t, ok)
		assert.Equal(t, 412, pages)
	})

	t.Run("resolves default locale from the system", func(t *testing.T) {
		service := &fakeBookService{books: []entities.Book{}}
		w := doRequest(newTestRouter(service), "GET", "/api/books/search?q=dune&locale=default", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "de", service.lastLanguage)
	})

	t.Run("explicit locale", func(t *testing.T) {
		service := &fakeBookService{books: []entities.Book{}}
		doRequest(newTestRouter(service), "GET", "/api/books/search?q=dune&locale=fr", nil)
		assert.Equal(t, "fr", service.lastLanguage)
	})

	t.Run("requires a query", func(t *testing.T) {
		w := doRequest(newTestRouter(&fakeBookService{}), "GET", "/api/books/search?q=%20", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		service := &fakeBookService{searchErr: &apierrors.TransportError{Service: "google-books", StatusCode: 429}}
		w := doRequest(newTestRouter(service), "GET", "/api/books/search?q=dune", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestNotionController_AddBook(t *testing.T) {
	t.Run("creates page", func(t *testing.T) {
		service := &fakeBookService{}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books", map[string]any{
			"title":     "Dune",
			"authors":   []string{"Frank Herbert"},
			"totalPage": "412",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, service.added, 1)
		assert.Equal(t, "Dune", service.added[0].Title)
		text, ok := service.added[0].TotalPage.Text()
		assert.True(t, ok)
		assert.Equal(t, "412", text)

		var response AddBookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "page-1", response.ID)
		assert.Equal(t, []string{"Name"}, response.Added)
		assert.Equal(t, []string{"ISBN"}, response.Skipped)
		assert.Equal(t, "ID: page-1\nAdded: Name\nSkipped: ISBN", response.Message)
	})

	t.Run("rejects a book without title", func(t *testing.T) {
		service := &fakeBookService{}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books", map[string]any{"author": "Nobody"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, service.added)
	})

	t.Run("schema without title column", func(t *testing.T) {
		service := &fakeBookService{addErr: &apierrors.ValidationError{Message: "Your Notion database must contain at least one title property."}}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books", map[string]any{"title": "Dune"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "title property")
	})

	t.Run("not configured", func(t *testing.T) {
		service := &fakeBookService{addErr: &apierrors.ConfigurationError{Message: "Notion API key or database ID is not configured"}}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books", map[string]any{"title": "Dune"})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestNotionController_SearchAndAdd(t *testing.T) {
	t.Run("adds best match", func(t *testing.T) {
		service := &fakeBookService{books: []entities.Book{
			{Title: "Dune", Authors: []string{"Frank Herbert"}},
			{Title: "Dune Messiah"},
		}}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books/search-and-add", map[string]string{"query": "dune"})

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, service.added, 1)
		assert.Equal(t, "Dune", service.added[0].Title)

		var response struct {
			Book    entities.Book   `json:"book"`
			Result  AddBookResponse `json:"result"`
			Message string          `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Dune", response.Book.Title)
		assert.Equal(t, "page-1", response.Result.ID)
		assert.Equal(t, []string{"ISBN"}, response.Result.Skipped)
		assert.Contains(t, response.Message, "Successfully added \"Dune\" by Frank Herbert")
	})

	t.Run("no results", func(t *testing.T) {
		service := &fakeBookService{books: []entities.Book{}}
		w := doRequest(newTestRouter(service), "POST", "/api/notion/books/search-and-add", map[string]string{"query": "zzzz"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, service.added)
	})

	t.Run("requires query", func(t *testing.T) {
		w := doRequest(newTestRouter(&fakeBookService{}), "POST", "/api/notion/books/search-and-add", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotionController_Preview(t *testing.T) {
	service := &fakeBookService{books: []entities.Book{{Title: "Dune", Authors: []string{"Frank Herbert"}}}}
	w := doRequest(newTestRouter(service), "GET", "/api/notion/books/preview?q=dune", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, service.added)

	var response struct {
		Confirmation string `json:"confirmation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Confirmation, "Would you like to add \"Dune\" by Frank Herbert")
}

func TestNotionController_Schema(t *testing.T) {
	service := &fakeBookService{mapping: notion.BuildPropertyMapping([]string{"Name", "Tags"})}
	w := doRequest(newTestRouter(service), "GET", "/api/notion/schema", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response notion.MappingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Name", response.Mapping[notion.PropertyTitle])
	assert.Equal(t, "Tags", response.Mapping[notion.PropertyCategories])
	assert.Contains(t, response.Missing, "Author")
}

func TestRouter_Ping(t *testing.T) {
	w := doRequest(newTestRouter(&fakeBookService{}), "GET", "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())
}
