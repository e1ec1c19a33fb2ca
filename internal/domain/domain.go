package domain

import (
	"github.com/yungbote/bookshelf-backend/internal/domain/auth"
	"github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/domain/user"
)

type Author = catalog.Author
type Book = catalog.Book
type BookGenre = catalog.BookGenre

type User = user.User

type Principal = auth.Principal

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&Author{},
		&Book{},
		&BookGenre{},
	}
}
