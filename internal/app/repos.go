package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type Repos struct {
	User   repos.UserRepo
	Author repos.AuthorRepo
	Book   repos.BookRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:   repos.NewUserRepo(db, log),
		Author: repos.NewAuthorRepo(db, log),
		Book:   repos.NewBookRepo(db, log),
	}
}
