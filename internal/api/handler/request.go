package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/middleware"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

const maxBodyBytes = 1 << 20

var (
	errEmptyBody   = echo.NewHTTPError(http.StatusBadRequest, "Request body is empty")
	errInvalidJSON = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	errMissingID   = echo.NewHTTPError(http.StatusBadRequest, "Missing resource id")
	errNoIdentity  = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: invalid or missing token")
)

func readBody(c echo.Context) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return nil, errInvalidJSON
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyBody
	}
	return raw, nil
}

// decodeObject reads a single JSON object into dst.
func decodeObject(c echo.Context, dst any) error {
	raw, err := readBody(c)
	if err != nil {
		return err
	}
	if raw[0] != '{' || json.Unmarshal(raw, dst) != nil {
		return errInvalidJSON
	}
	return nil
}

// decodeOneOrMany accepts either one JSON object or an array of them. batch
// reports which form the client sent.
func decodeOneOrMany[T any](c echo.Context) (items []T, batch bool, err error) {
	raw, err := readBody(c)
	if err != nil {
		return nil, false, err
	}

	switch raw[0] {
	case '[':
		if json.Unmarshal(raw, &items) != nil {
			return nil, true, errInvalidJSON
		}
		return items, true, nil
	case '{':
		var item T
		if json.Unmarshal(raw, &item) != nil {
			return nil, false, errInvalidJSON
		}
		return []T{item}, false, nil
	default:
		return nil, false, errInvalidJSON
	}
}

// resourceID is the first path segment after a prefix route such as /cars/.
func resourceID(c echo.Context) (string, error) {
	rest := strings.TrimPrefix(c.Param("*"), "/")
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", errMissingID
	}
	return id, nil
}

// currentIdentity returns the caller resolved by the auth guard.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" {
		return domain.Identity{}, errNoIdentity
	}
	return id, nil
}

// audit enqueues a log entry once the response has been written.
func audit(rec ports.AuditRecorder, c echo.Context, who domain.Identity, action string) {
	if rec == nil {
		return
	}
	rec.Record(domain.LogEntry{
		UserID:   who.ID,
		Username: who.Username,
		Action:   action,
		Method:   c.Request().Method,
		Endpoint: c.Request().URL.Path,
	})
}
