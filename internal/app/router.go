package app

import (
	"github.com/yungbote/bookshelf-backend/internal/http"
)

func wireServer(handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlers.User,
		CatalogHandler:  handlers.Catalog,
		RealtimeHandler: handlers.Realtime,
		Middleware:      middleware.Global,
	})
}
