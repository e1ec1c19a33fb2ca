package user

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
)

const UsernameMinLen = 3

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	FavoriteGenre string    `gorm:"not null;column:favorite_genre" json:"favoriteGenre"`

	// PasswordHash is a bcrypt hash; empty means the account signs in with
	// the shared login secret.
	PasswordHash string `gorm:"column:password_hash" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.Validate()
}

func (u *User) Validate() error {
	username := strings.TrimSpace(u.Username)
	if username == "" {
		return pkgerrors.Invalid("user", "username", u.Username, "is required")
	}
	if utf8.RuneCountInString(username) < UsernameMinLen {
		return pkgerrors.Invalid("user", "username", u.Username, "is shorter than the minimum allowed length (3)")
	}
	if strings.TrimSpace(u.FavoriteGenre) == "" {
		return pkgerrors.Invalid("user", "favoriteGenre", u.FavoriteGenre, "is required")
	}
	return nil
}
