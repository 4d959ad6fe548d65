package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
	"todoapp/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	email := domain.NormalizeEmail(req.Email)

	oldUser, err := as.repo.GetByEmail(ctx, email)

	if err == nil && oldUser.Email != "" {
		return nil, domain.ErrEmailTaken
	}

	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	encrypted, err := util.HashPassword(req.Password)

	if err != nil {
		return nil, errors.New("error creating encrypted password")
	}

	now := time.Now()

	user := domain.User{
		UUID:              uuid.New(),
		Email:             email,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := as.repo.Create(ctx, user)

	if err != nil {
		return nil, err
	}

	return &savedUser, nil
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := as.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))

	if err != nil {
		slog.Error("Auth#Authenticate", "get_by_email", err)
		return nil, domain.ErrInvalidCredentials
	}

	if err := util.VerifyPassword(req.Password, user.EncryptedPassword); err != nil {
		slog.Error("Auth#Authenticate", "compare_password", err)
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}
