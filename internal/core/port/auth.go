package port

import (
	"context"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
}

// SessionService backs the cookie-authenticated browser surface.
type SessionService interface {
	Create(ctx context.Context, userID int) (domain.Session, error)
	Find(ctx context.Context, id string) (domain.Session, error)
	Destroy(ctx context.Context, id string) error
}
