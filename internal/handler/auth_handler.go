package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "surveyhub/internal/errors"
	"surveyhub/internal/service"
)

// AuthHandler handles signup, login and admin provisioning endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body of signup, login and create-admin.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the body returned by signup and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Role    string `json:"role"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Server error during signup.", err))
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully!",
		Token:   token,
		UserID:  user.ID.String(),
		Role:    user.Role,
	})
}

// Login godoc
// @Summary Authenticate an existing user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Server error during login.", err))
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Logged in successfully!",
		Token:   token,
		UserID:  user.ID.String(),
		Role:    user.Role,
	})
}

// CreateAdmin godoc
// @Summary Provision an admin user
// @Description Development-only endpoint, registered when ENABLE_ADMIN_ENDPOINT=true.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required.")
	}

	user, err := h.authService.ProvisionAdmin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateAdmin) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Failed to create admin user.", err))
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Admin user created successfully!",
		"userId":  user.ID.String(),
	})
}
