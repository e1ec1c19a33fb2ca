package app

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/bookshelf-backend/internal/http/middleware"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
	// Global runs on every route, in order.
	Global []gin.HandlerFunc
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services, metrics *observability.Metrics) Middleware {
	log.Info("Wiring middleware...")
	global := []gin.HandlerFunc{}
	if cfg.OtelEnabled {
		global = append(global, observability.GinTracing(cfg.OtelServiceName))
	}
	global = append(global,
		httpMW.AttachTraceContext(),
		httpMW.RequestLogger(log.With("component", "http")),
		httpMW.Metrics(metrics),
		httpMW.CORS(cfg.CORSOrigins...),
	)
	return Middleware{
		Auth:   httpMW.NewAuthMiddleware(log, services.Auth),
		Global: global,
	}
}
