package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
)

const AuthorNameMinLen = 4

type Author struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Born *int      `gorm:"column:born" json:"born"`

	// BookCount is derived from the book table, never stored.
	BookCount int64 `gorm:"-" json:"bookCount"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Author) TableName() string { return "author" }

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Author) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

func (a *Author) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return pkgerrors.Invalid("author", "name", a.Name, "is required")
	}
	if utf8.RuneCountInString(name) < AuthorNameMinLen {
		return pkgerrors.Invalid("author", "name", a.Name, "is shorter than the minimum allowed length (4)")
	}
	return nil
}
