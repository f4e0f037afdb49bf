package handlers

import (
	"net/http"
	"strings"

	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// OperatorHandlers covers campaign operator assignment and the employee
// directory.
type OperatorHandlers struct {
	campaignService services.CampaignService
}

func NewOperatorHandlers(campaignService services.CampaignService) *OperatorHandlers {
	return &OperatorHandlers{campaignService: campaignService}
}

// ListOperators handles GET /api/campaigns/:id/operators.
func (h *OperatorHandlers) ListOperators(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	operators, err := h.campaignService.Operators(c.Request().Context(), id)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"operators": operators,
	})
}

// AssignOperators handles POST /api/campaigns/:id/operators.
func (h *OperatorHandlers) AssignOperators(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	var req struct {
		Operators []int64 `json:"operators"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Operators) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one operator ID is required")
	}

	if err := h.campaignService.AssignOperators(c.Request().Context(), id, req.Operators); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Operators assigned",
	})
}

// UnassignOperator handles DELETE /api/campaigns/:id/operators/:operatorId.
func (h *OperatorHandlers) UnassignOperator(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	operatorID := strings.TrimSpace(c.Param("operatorId"))
	if id == "" || operatorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID and operator ID are required")
	}

	if err := h.campaignService.UnassignOperator(c.Request().Context(), id, operatorID); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Operator removed",
	})
}

// ListEmployees handles GET /api/employees.
func (h *OperatorHandlers) ListEmployees(c echo.Context) error {
	employees, err := h.campaignService.Employees(c.Request().Context())
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"employees": employees,
	})
}

// ListEmployeeExtensions handles GET /api/employees/extensions. The vendor
// payload is passed through untouched.
func (h *OperatorHandlers) ListEmployeeExtensions(c echo.Context) error {
	extensions, err := h.campaignService.EmployeeExtensions(c.Request().Context())
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"extensions": extensions,
	})
}
