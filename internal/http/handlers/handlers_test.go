package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/domain/auth"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type stubCatalog struct {
	services.CatalogService
	editCalls int
	editBorn  int
	addCalls  int
}

func (s *stubCatalog) EditAuthor(_ context.Context, p types.Principal, name string, born int) (*types.Author, error) {
	s.editCalls++
	if p.IsAnonymous() {
		return nil, apierr.Unauthenticated()
	}
	s.editBorn = born
	return &types.Author{Name: name, Born: &born}, nil
}

func (s *stubCatalog) AddBook(_ context.Context, _ types.Principal, in services.AddBookInput) (*types.Book, error) {
	s.addCalls++
	return &types.Book{Title: in.Title, Published: in.Published}, nil
}

func (s *stubCatalog) BookCount(context.Context) (int64, error) { return 7, nil }

func serve(t *testing.T, principal types.Principal, method, path, body string, register func(*gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("principal", principal); c.Next() })
	register(r)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEditAuthorGateComesBeforeBodyValidation(t *testing.T) {
	user := auth.Authenticated(&types.User{Username: "reader"})
	cases := []struct {
		name      string
		principal types.Principal
		body      string
		status    int
		code      string
		calls     int
	}{
		{"anonymous without born", auth.Anonymous(), `{"name":"Tolkien"}`, http.StatusUnauthorized, apierr.CodeUnauthenticated, 1},
		{"authenticated without born", user, `{"name":"Tolkien"}`, http.StatusBadRequest, apierr.CodeBadUserInput, 0},
		{"authenticated with born", user, `{"name":"Tolkien","setBornTo":1892}`, http.StatusOK, "", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCatalog{}
			h := NewCatalogHandler(stub)
			rec := serve(t, tc.principal, http.MethodPost, "/authors/edit", tc.body, func(r *gin.Engine) {
				r.POST("/authors/edit", h.EditAuthor)
			})
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.code != "" {
				assert.Contains(t, rec.Body.String(), tc.code)
			}
			assert.Equal(t, tc.calls, stub.editCalls)
		})
	}
}

func TestAddBookGateComesBeforeBodyValidation(t *testing.T) {
	user := auth.Authenticated(&types.User{Username: "reader"})
	cases := []struct {
		name      string
		principal types.Principal
		body      string
		status    int
		code      string
		calls     int
	}{
		{"anonymous with malformed body", auth.Anonymous(), `{"title":`, http.StatusUnauthorized, apierr.CodeUnauthenticated, 0},
		{"anonymous with valid body", auth.Anonymous(), `{"title":"Refactoring","author":"Martin Fowler","published":1999}`, http.StatusUnauthorized, apierr.CodeUnauthenticated, 0},
		{"authenticated with malformed body", user, `{"title":`, http.StatusBadRequest, apierr.CodeBadUserInput, 0},
		{"authenticated without published", user, `{"title":"Refactoring","author":"Martin Fowler"}`, http.StatusBadRequest, apierr.CodeBadUserInput, 0},
		{"authenticated with published zero", user, `{"title":"Refactoring","author":"Martin Fowler","published":0}`, http.StatusOK, "", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCatalog{}
			h := NewCatalogHandler(stub)
			rec := serve(t, tc.principal, http.MethodPost, "/books", tc.body, func(r *gin.Engine) {
				r.POST("/books", h.AddBook)
			})
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.code != "" {
				assert.Contains(t, rec.Body.String(), tc.code)
			}
			assert.Equal(t, tc.calls, stub.addCalls)
		})
	}
}

func TestBookCountEnvelope(t *testing.T) {
	h := NewCatalogHandler(&stubCatalog{})
	rec := serve(t, auth.Anonymous(), http.MethodGet, "/books/count", "", func(r *gin.Engine) {
		r.GET("/books/count", h.BookCount)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookCount":7}`, rec.Body.String())
}

func TestHealthCheckReportsFailingDependency(t *testing.T) {
	healthy := NewHealthHandler(map[string]Pinger{"database": func(context.Context) error { return nil }})
	rec := serve(t, auth.Anonymous(), http.MethodGet, "/healthcheck", "", func(r *gin.Engine) {
		r.GET("/healthcheck", healthy.HealthCheck)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	down := NewHealthHandler(map[string]Pinger{"redis": func(context.Context) error { return errors.New("dial tcp: refused") }})
	rec = serve(t, auth.Anonymous(), http.MethodGet, "/healthcheck", "", func(r *gin.Engine) {
		r.GET("/healthcheck", down.HealthCheck)
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis unavailable", rec.Body.String())
}
