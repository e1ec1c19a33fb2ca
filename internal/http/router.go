package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/bookshelf-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bookshelf-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	CatalogHandler  *httpH.CatalogHandler
	RealtimeHandler *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler

	// Middleware runs ahead of every route, in order.
	Middleware []gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cfg.Middleware...)

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	// Every API request gets a principal, anonymous or not, before any
	// handler runs. Gated operations check it themselves.
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.ResolvePrincipal())
	}
	{
		// Queries
		if cfg.CatalogHandler != nil {
			api.GET("/books/count", cfg.CatalogHandler.BookCount)
			api.GET("/authors/count", cfg.CatalogHandler.AuthorCount)
			api.GET("/books", cfg.CatalogHandler.AllBooks)
			api.GET("/authors", cfg.CatalogHandler.AllAuthors)
		}
		if cfg.UserHandler != nil {
			api.GET("/me", cfg.UserHandler.GetMe)
		}

		// Mutations
		if cfg.CatalogHandler != nil {
			api.POST("/books", cfg.CatalogHandler.AddBook)
			api.POST("/authors/edit", cfg.CatalogHandler.EditAuthor)
		}
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.CreateUser)
		}
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Subscriptions
		if cfg.RealtimeHandler != nil {
			api.GET("/subscriptions/book-added", cfg.RealtimeHandler.BookAddedSSE)
			api.GET("/subscriptions/book-added/ws", cfg.RealtimeHandler.BookAddedWS)
		}
	}

	return r
}
