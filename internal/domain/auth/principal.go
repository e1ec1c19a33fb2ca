package auth

import (
	"github.com/google/uuid"

	"github.com/yungbote/bookshelf-backend/internal/domain/user"
)

// Principal is the acting identity of one request. The zero value is
// anonymous.
type Principal struct {
	User *user.User
}

func Anonymous() Principal { return Principal{} }

func Authenticated(u *user.User) Principal { return Principal{User: u} }

func (p Principal) IsAnonymous() bool { return p.User == nil }

func (p Principal) UserID() uuid.UUID {
	if p.User == nil {
		return uuid.Nil
	}
	return p.User.ID
}
