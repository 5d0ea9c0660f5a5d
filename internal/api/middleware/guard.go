package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/service"
)

const (
	ctxIdentity = "identity"
	ctxToken    = "session_token"

	msgUnauthorized   = "Unauthorized: invalid or missing token"
	msgSessionExpired = "Unauthorized: session expired"
	msgForbidden      = "Forbidden: you do not have permission for this resource"
)

// RequireAuth resolves the caller from the Authorization header. On failure it
// answers 401 and halts; on success the identity and token are stored on the
// context for the handler.
func RequireAuth(auth ports.Authenticator) Stage {
	return func(c echo.Context) (Outcome, error) {
		_, outcome, err := authenticate(c, auth)
		return outcome, err
	}
}

// RequireRole is RequireAuth plus a role check that answers 403.
func RequireRole(auth ports.Authenticator, roles ...string) Stage {
	return func(c echo.Context) (Outcome, error) {
		id, outcome, err := authenticate(c, auth)
		if outcome != Continue || err != nil {
			return outcome, err
		}
		if !id.HasRole(roles...) {
			return halt(c, http.StatusForbidden, msgForbidden)
		}
		return Continue, nil
	}
}

func authenticate(c echo.Context, auth ports.Authenticator) (domain.Identity, Outcome, error) {
	values := c.Request().Header.Values(echo.HeaderAuthorization)

	id, err := auth.Authenticate(c.Request().Context(), values)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionExpired):
		outcome, werr := halt(c, http.StatusUnauthorized, msgSessionExpired)
		return id, outcome, werr
	case errors.Is(err, domain.ErrUnauthorized):
		outcome, werr := halt(c, http.StatusUnauthorized, msgUnauthorized)
		return id, outcome, werr
	default:
		return id, Halt, err
	}

	SetIdentity(c, id, service.TokenFromHeader(values))
	return id, Continue, nil
}

// SetIdentity stores the caller and its session token on the context.
func SetIdentity(c echo.Context, id domain.Identity, token string) {
	c.Set(ctxIdentity, id)
	c.Set(ctxToken, token)
}

// IdentityFrom returns the identity stored by RequireAuth or RequireRole.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(domain.Identity)
	return id, ok
}

// TokenFrom returns the session token of an authenticated request.
func TokenFrom(c echo.Context) string {
	token, _ := c.Get(ctxToken).(string)
	return token
}
