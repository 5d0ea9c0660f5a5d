package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// SessionRepository persists login sessions keyed by token.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByToken returns domain.ErrSessionNotFound for unknown tokens.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}
