package app

import (
	httpH "github.com/yungbote/bookshelf-backend/internal/http/handlers"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Catalog  *httpH.CatalogHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.Hub, metrics *observability.Metrics, checks map[string]httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(checks),
		Auth:     httpH.NewAuthHandler(services.Auth),
		User:     httpH.NewUserHandler(services.User),
		Catalog:  httpH.NewCatalogHandler(services.Catalog),
		Realtime: httpH.NewRealtimeHandler(log, hub, metrics),
	}
}
