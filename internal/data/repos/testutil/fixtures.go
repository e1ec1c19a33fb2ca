package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Username:      username,
		FavoriteGenre: "refactoring",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, born *int) *types.Author {
	tb.Helper()
	a := &types.Author{Name: name, Born: born}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return a
}

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, author *types.Author, title string, published int, genres ...string) *types.Book {
	tb.Helper()
	b := &types.Book{
		Title:     title,
		Published: published,
		AuthorID:  author.ID,
		Genres:    genres,
	}
	if err := tx.WithContext(ctx).Omit("Author").Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	b.Author = author
	return b
}
