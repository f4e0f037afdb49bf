package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"callpanel/internal/common"
	"callpanel/internal/repositories"
	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandlers handles registration, login and the current-user endpoint.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !emailPattern.MatchString(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email format")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	user, token, err := h.authService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return echo.NewHTTPError(http.StatusConflict, "User with this email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.Safe(),
	})
}

// Login handles POST /api/auth/login. The error is the same whether the
// email is unknown or the password is wrong.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.authService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.Safe(),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Safe(),
	})
}
