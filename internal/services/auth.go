package services

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/domain/auth"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/bookshelf-backend/internal/services")

type AuthService interface {
	// ResolvePrincipal derives the request's principal from an optional
	// token. No token is anonymous. A token that fails verification is an
	// InvalidToken error. A verified token whose user is gone is anonymous.
	ResolvePrincipal(ctx context.Context, token string) (types.Principal, error)
	// Login exchanges credentials for a signed session token.
	Login(ctx context.Context, username, credential string) (string, error)
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	signer   TokenSigner
	verifier CredentialVerifier
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, signer TokenSigner, verifier CredentialVerifier) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:      serviceLog,
		userRepo: userRepo,
		signer:   signer,
		verifier: verifier,
	}
}

func (as *authService) ResolvePrincipal(ctx context.Context, token string) (types.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Anonymous(), nil
	}

	claims, err := as.signer.Verify(token)
	if err != nil {
		as.log.Debug("Rejected session token", "error", err)
		return auth.Anonymous(), apierr.InvalidToken(err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return auth.Anonymous(), apierr.InvalidToken(err)
	}

	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		as.log.Error("Principal lookup failed", "user_id", userID, "error", err)
		return auth.Anonymous(), apierr.Internal("resolving principal failed", err)
	}
	if user == nil {
		as.log.Debug("Token subject no longer exists; treating as anonymous", "user_id", userID)
		return auth.Anonymous(), nil
	}
	return auth.Authenticated(user), nil
}

func (as *authService) Login(ctx context.Context, username, credential string) (string, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := as.userRepo.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		as.log.Error("Login lookup failed", "error", err)
		return "", apierr.Internal("login failed", err)
	}
	// Verify runs for unknown users too so both failures look the same.
	if !as.verifier.Verify(user, credential) || user == nil {
		return "", apierr.InvalidCredentials()
	}

	token, err := as.signer.Sign(SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
	})
	if err != nil {
		as.log.Error("Signing session token failed", "error", err)
		return "", apierr.Internal("login failed", err)
	}
	as.log.Info("User logged in", "user_id", user.ID)
	return token, nil
}
