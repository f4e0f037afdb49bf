package handlers

import (
	"errors"
	"net/http"

	"callpanel/internal/common"
	"callpanel/internal/repositories"
	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles profile updates for the authenticated user.
type UserHandlers struct {
	authService services.AuthService
}

func NewUserHandlers(authService services.AuthService) *UserHandlers {
	return &UserHandlers{authService: authService}
}

// UpdateProfile handles PUT /api/users/me.
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Name == nil && req.Password == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}
	if req.Password != nil && len(*req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	user, err := h.authService.UpdateProfile(ctx, userID, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Safe(),
	})
}

// DeleteAccount handles DELETE /api/users/me.
func (h *UserHandlers) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	removed, err := h.authService.DeleteAccount(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete account")
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Account deleted",
	})
}
