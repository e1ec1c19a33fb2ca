package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Catalog services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, pub realtime.Publisher, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY is not set; using the development default")
	}
	signer := services.NewJWTSigner(cfg.JWTSecretKey, cfg.AccessTokenTTL)
	verifier, err := services.NewBcryptVerifier(cfg.LoginSharedSecret, cfg.BcryptCost)
	if err != nil {
		return Services{}, fmt.Errorf("init credential verifier: %w", err)
	}

	notifier := services.NewCatalogNotifier(log, pub, metrics)
	return Services{
		Auth:    services.NewAuthService(log, repos.User, signer, verifier),
		User:    services.NewUserService(log, repos.User, verifier),
		Catalog: services.NewCatalogService(db, log, repos.Author, repos.Book, notifier),
	}, nil
}
