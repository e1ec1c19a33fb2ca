package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookshelf-backend/internal/http/middleware"
	"github.com/yungbote/bookshelf-backend/internal/http/response"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /api/users
func (uh *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username      string `json:"username"`
		FavoriteGenre string `json:"favoriteGenre"`
		Password      string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	user, err := uh.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Username:      req.Username,
		FavoriteGenre: req.FavoriteGenre,
		Password:      req.Password,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"createUser": user})
}

// GET /api/me; "me" is null for anonymous callers.
func (uh *UserHandler) GetMe(c *gin.Context) {
	response.RespondOK(c, gin.H{"me": uh.userService.Me(middleware.Principal(c))})
}
