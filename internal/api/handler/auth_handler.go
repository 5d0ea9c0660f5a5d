package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/middleware"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// AuthHandler serves registration, login, logout and the account endpoints.
type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditRecorder
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditRecorder) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type identityResponse struct {
	Message string          `json:"message"`
	User    domain.Identity `json:"user"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account with the user role, or admin when requested.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := decodeObject(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, userResponse{Message: "User registered", User: user}); err != nil {
		return err
	}
	audit(h.audit, c, user.Identity(), "Registered")
	return nil
}

// Login exchanges credentials for a session token valid for one hour.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := decodeObject(c, &req); err != nil {
		return err
	}

	session, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Token: session.Token, User: user}); err != nil {
		return err
	}
	audit(h.audit, c, user.Identity(), "Logged in")
	return nil
}

// Logout ends the session used to authenticate this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), middleware.TokenFrom(c)); err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, messageResponse{Message: "Logged out"}); err != nil {
		return err
	}
	audit(h.audit, c, id, "Logged out")
	return nil
}

// Profile returns the caller's identity.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Message: "User profile", User: id})
}

// AdminArea is a probe for staff access.
//
// @Summary      Admin area
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/area [get]
func (h *AuthHandler) AdminArea(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Message: "Admin area", User: id})
}

// CreateAdmin creates an admin account. Superadmin only.
//
// @Summary      Create an admin
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      credentialsRequest  true  "Admin credentials"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/create-admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	caller, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req credentialsRequest
	if err := decodeObject(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.CreateAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, userResponse{Message: "Admin created", User: user}); err != nil {
		return err
	}
	audit(h.audit, c, caller, "Created admin "+user.Username)
	return nil
}
