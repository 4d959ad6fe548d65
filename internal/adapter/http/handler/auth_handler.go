package handler

import (
	"errors"
	"log/slog"
	"net/http"

	. "todoapp/internal/adapter/http/helper"
	. "todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"
	"todoapp/internal/core/telemetry"
	"todoapp/internal/core/util"
	"todoapp/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc port.AuthService

	// Metrics is optional; tests leave it nil.
	Metrics *telemetry.AppMetrics
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (a *AuthHandler) recordOperation(operation string) {
	if a.Metrics != nil {
		a.Metrics.RecordUserOperation(operation)
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			SendBadRequestError(c, "email", "Email is already taken")
			return
		}

		slog.Error("Registration failed", "error", err)
		SendBadRequestError(c, "registration", err.Error())
		return
	}

	userResponse := response.UserResponse{
		UUID:      user.UUID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	a.recordOperation("signup")

	SendSuccess(c, http.StatusCreated, userResponse)
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	token, err := auth.CreateJwtTokenForUser(user.ID)

	if err != nil {
		SendUnauthorizedError(c, "Failed to generate access token")
		return
	}

	a.recordOperation("login")

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
	})
}
