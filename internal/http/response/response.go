package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookshelf-backend/internal/platform/apierr"
)

type APIError struct {
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	InvalidArgs string `json:"invalidArgs,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes err in its classified form. The underlying cause is
// kept on the gin context for the request logger and never sent.
func RespondError(c *gin.Context, err error) {
	ae := apierr.As(err)
	if ae.Err != nil {
		_ = c.Error(ae.Err)
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message:     ae.Message,
			Code:        ae.Code,
			InvalidArgs: ae.InvalidArgs,
		},
	})
}

// AbortWithError is RespondError for middleware.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}

// RespondBadRequest reports a request body that could not be decoded.
func RespondBadRequest(c *gin.Context, err error) {
	RespondError(c, apierr.ValidationFailed("invalid request body", "", err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
