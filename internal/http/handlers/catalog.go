package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookshelf-backend/internal/http/middleware"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /api/books/count
func (h *CatalogHandler) BookCount(c *gin.Context) {
	n, err := h.catalogService.BookCount(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bookCount": n})
}

// GET /api/authors/count
func (h *CatalogHandler) AuthorCount(c *gin.Context) {
	n, err := h.catalogService.AuthorCount(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"authorCount": n})
}

// GET /api/books?author=&genre=
func (h *CatalogHandler) AllBooks(c *gin.Context) {
	books, err := h.catalogService.AllBooks(c.Request.Context(), services.BookQuery{
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"allBooks": books})
}

// GET /api/authors
func (h *CatalogHandler) AllAuthors(c *gin.Context) {
	authors, err := h.catalogService.AllAuthors(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"allAuthors": authors})
}

// POST /api/books
func (h *CatalogHandler) AddBook(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal.IsAnonymous() {
		response.RespondError(c, apierr.Unauthenticated())
		return
	}
	var req struct {
		Title     string   `json:"title"`
		Author    string   `json:"author"`
		Published *int     `json:"published"`
		Genres    []string `json:"genres"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	if req.Published == nil {
		response.RespondBadRequest(c, errMissingField("published"))
		return
	}
	book, err := h.catalogService.AddBook(c.Request.Context(), principal, services.AddBookInput{
		Title:     req.Title,
		Author:    req.Author,
		Published: *req.Published,
		Genres:    req.Genres,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"addBook": book})
}

// POST /api/authors/edit
func (h *CatalogHandler) EditAuthor(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		SetBornTo *int   `json:"setBornTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	// Gate before validating the body so anonymous callers learn nothing.
	principal := middleware.Principal(c)
	if req.SetBornTo == nil && !principal.IsAnonymous() {
		response.RespondBadRequest(c, errMissingField("setBornTo"))
		return
	}
	born := 0
	if req.SetBornTo != nil {
		born = *req.SetBornTo
	}
	author, err := h.catalogService.EditAuthor(c.Request.Context(), principal, req.Name, born)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"editAuthor": author})
}
