package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leadcrm/internal/errors"
	"leadcrm/internal/middleware"
	"leadcrm/internal/model"
	"leadcrm/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateUserRequest represents an admin request to create a user.
type CreateUserRequest struct {
	Name   string `json:"name" validate:"required,min=3"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// SetPasswordRequest carries the new password. The setup token travels in the
// Authorization header, the token query parameter or the path.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginUser is the user summary returned on login.
type LoginUser struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// CreateUser godoc
// @Summary Create a user and send a password setup email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} Response{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/create [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   model.Role(req.Role),
		Status: model.UserStatus(req.Status),
	})
	if err != nil {
		return fail(err)
	}

	return respond(c, http.StatusCreated, "User created and password setup email sent", user)
}

// SetPassword godoc
// @Summary Set password with a setup token
// @Tags auth
// @Accept json
// @Produce json
// @Param token query string false "Setup token"
// @Param email query string false "Email of the token holder"
// @Param request body SetPasswordRequest true "New password"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/set-password [post]
func (h *AuthHandler) SetPassword(c echo.Context) error {
	var req SetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(errors.Validation("invalid request body"))
	}

	err := h.authService.SetPassword(c.Request().Context(), service.SetPasswordInput{
		Token:    setupToken(c),
		Email:    c.QueryParam("email"),
		Password: req.Password,
	})
	if err != nil {
		return fail(err)
	}

	return respond(c, http.StatusOK, "Password set successfully", nil)
}

// setupToken reads the setup token from the bearer header, the token query parameter or the path, in that order.
func setupToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	if token := c.QueryParam("token"); token != "" {
		return token
	}
	return c.Param("token")
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=LoginUser}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Data: LoginUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout godoc
// @Summary Revoke the current session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(errors.ErrTokenMissing)
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=auth.Identity}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", identity)
}
