package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
)

const BookTitleMinLen = 5

type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Published int       `gorm:"not null;column:published" json:"published"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"-"`
	Author    *Author   `gorm:"foreignKey:AuthorID;references:ID" json:"author"`

	// Genres keeps the caller's order. GenreIndex mirrors it as rows so the
	// membership filter is a plain indexed lookup on every driver.
	Genres     datatypes.JSONSlice[string] `gorm:"column:genres" json:"genres"`
	GenreIndex []BookGenre                 `gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string { return "book" }

type BookGenre struct {
	BookID uuid.UUID `gorm:"type:uuid;primaryKey;column:book_id"`
	Genre  string    `gorm:"primaryKey;index;column:genre"`
}

func (BookGenre) TableName() string { return "book_genre" }

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Genres == nil {
		b.Genres = datatypes.JSONSlice[string]{}
	}
	b.GenreIndex = genreIndex(b.ID, b.Genres)
	return nil
}

func (b *Book) BeforeSave(tx *gorm.DB) error {
	return b.Validate()
}

func (b *Book) Validate() error {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		return pkgerrors.Invalid("book", "title", b.Title, "is required")
	}
	if utf8.RuneCountInString(title) < BookTitleMinLen {
		return pkgerrors.Invalid("book", "title", b.Title, "is shorter than the minimum allowed length (5)")
	}
	if b.AuthorID == uuid.Nil {
		return pkgerrors.Invalid("book", "author", b.AuthorID, "is required")
	}
	for _, g := range b.Genres {
		if strings.TrimSpace(g) == "" {
			return pkgerrors.Invalid("book", "genres", []string(b.Genres), "must not contain empty tags")
		}
	}
	return nil
}

// HasGenre reports exact membership of genre in the book's tags.
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

func genreIndex(bookID uuid.UUID, genres []string) []BookGenre {
	seen := make(map[string]bool, len(genres))
	out := make([]BookGenre, 0, len(genres))
	for _, g := range genres {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, BookGenre{BookID: bookID, Genre: g})
	}
	return out
}
