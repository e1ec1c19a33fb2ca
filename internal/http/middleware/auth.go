package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

const principalKey = "principal"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// ResolvePrincipal runs once per request, before any handler. A missing
// token yields an anonymous principal; a token that does not verify aborts
// the request.
func (am *AuthMiddleware) ResolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := am.authService.ResolvePrincipal(c.Request.Context(), extractTokenFromAll(c))
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Set(principalKey, principal)
		if !principal.IsAnonymous() {
			c.Set("user_id", principal.UserID().String())
		}
		c.Next()
	}
}

// Principal returns the principal resolved for this request, anonymous when
// none was attached.
func Principal(c *gin.Context) types.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(types.Principal); ok {
			return p
		}
	}
	return types.Principal{}
}

func extractTokenFromAll(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	// EventSource and WebSocket clients cannot set headers.
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	return ""
}
