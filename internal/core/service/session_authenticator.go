package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/metrics"
)

// SessionAuthenticator resolves bearer tokens to identities. Expiry is checked
// lazily on every call; there is no background sweep.
type SessionAuthenticator struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionAuthenticator(users ports.UserRepository, sessions ports.SessionRepository, ttl time.Duration, log zerolog.Logger) *SessionAuthenticator {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	return &SessionAuthenticator{users: users, sessions: sessions, ttl: ttl, now: time.Now, log: log}
}

// Authenticate returns domain.ErrUnauthorized when there is no usable token,
// and domain.ErrSessionExpired when the session outlived its TTL (the session
// is deleted in that case).
func (a *SessionAuthenticator) Authenticate(ctx context.Context, authorization []string) (domain.Identity, error) {
	token := TokenFromHeader(authorization)
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	session, err := a.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}

	if session.Expired(a.now(), a.ttl) {
		if err := a.sessions.Delete(ctx, token); err != nil {
			a.log.Warn().Err(err).Str("user_id", session.UserID).Msg("failed to delete expired session")
		}
		metrics.SessionsExpiredTotal.Inc()
		return domain.Identity{}, domain.ErrSessionExpired
	}

	user, err := a.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// orphaned session
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}

	return user.Identity(), nil
}

// TokenFromHeader extracts the session token from Authorization header values.
// Both "Bearer <token>" and a bare token are accepted; only the first value counts.
func TokenFromHeader(values []string) string {
	if len(values) == 0 {
		return ""
	}
	header := strings.TrimSpace(values[0])
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}
