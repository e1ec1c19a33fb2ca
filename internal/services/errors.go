package services

import (
	"errors"
	"fmt"

	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
)

// validationFailed reclassifies a rejected write. arg is the identifying
// input of the entity being written (title, author name, username) and is
// always the echoed value. The store's field and reason go into the message
// and the store error stays attached as the cause.
func validationFailed(message, arg string, err error) *apierr.Error {
	var ve *pkgerrors.ValidationError
	if errors.As(err, &ve) {
		return apierr.ValidationFailed(fmt.Sprintf("%s: %s %s", message, ve.Field, ve.Reason), arg, err)
	}
	return apierr.ValidationFailed(message, arg, err)
}
