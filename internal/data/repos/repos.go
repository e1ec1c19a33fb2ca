package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookshelf-backend/internal/data/repos/user"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type AuthorRepo = catalog.AuthorRepo
type BookRepo = catalog.BookRepo
type BookFilter = catalog.BookFilter

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	return catalog.NewAuthorRepo(db, baseLog)
}
func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return catalog.NewBookRepo(db, baseLog)
}
