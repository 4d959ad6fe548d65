package service

import (
	"context"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo}
}

func (us *UserService) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	return us.repo.GetByID(ctx, id)
}

func (us *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return us.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
}
