package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// RegisterInput carries a self-registration request. Role is optional.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, token string) error
	// CreateAdmin creates an account with the admin role. Callers must be superadmins.
	CreateAdmin(ctx context.Context, username, password string) (*domain.User, error)
}

// Authenticator resolves the Authorization header values of a request to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization []string) (domain.Identity, error)
}
