package handler

import (
	"errors"
	"net/http"

	. "todoapp/internal/adapter/http/helper"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc port.UserService
}

func NewUserHandler(svc port.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	user, err := h.svc.GetUserByID(ctx, userId)

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, "User not found")
			return
		}

		SendInternalError(c, "Error getting user")
		return
	}

	userResponse := response.UserResponse{
		UUID:      user.UUID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	SendSuccess(c, http.StatusOK, userResponse)
}
