package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	// GetByID and GetByUsername return (nil, nil) when no row matches.
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	Count(dbc dbctx.Context) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if err := dbc.DB(ur.db).Create(user).Error; err != nil {
		return nil, pkgerrors.ClassifyWrite("user", "username", user.Username, err)
	}
	return user, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	return ur.takeOne(dbc.DB(ur.db).Where("id = ?", userID))
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	return ur.takeOne(dbc.DB(ur.db).Where("username = ?", username))
}

func (ur *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(ur.db).Model(&types.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ur *userRepo) takeOne(q *gorm.DB) (*types.User, error) {
	var u types.User
	err := q.Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
