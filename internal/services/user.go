package services

import (
	"context"
	"strings"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type CreateUserInput struct {
	Username      string
	FavoriteGenre string
	// Password is optional; without it the account uses the shared login secret.
	Password string
}

type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error)
	Me(principal types.Principal) *types.User
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	verifier CredentialVerifier
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, verifier CredentialVerifier) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:      serviceLog,
		userRepo: userRepo,
		verifier: verifier,
	}
}

// CreateUser is open registration. Every store failure comes back as
// ValidationFailed.
func (us *userService) CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error) {
	user := &types.User{
		Username:      strings.TrimSpace(in.Username),
		FavoriteGenre: strings.TrimSpace(in.FavoriteGenre),
	}
	if in.Password != "" {
		hash, err := us.verifier.Hash(in.Password)
		if err != nil {
			return nil, apierr.Internal("hashing password failed", err)
		}
		user.PasswordHash = hash
	}

	created, err := us.userRepo.Create(dbctx.Context{Ctx: ctx}, user)
	if err != nil {
		us.log.Warn("Create user rejected", "username", in.Username, "error", err)
		return nil, validationFailed("Creating user failed", in.Username, err)
	}
	us.log.Info("User created", "user_id", created.ID)
	return created, nil
}

func (us *userService) Me(principal types.Principal) *types.User {
	return principal.User
}
