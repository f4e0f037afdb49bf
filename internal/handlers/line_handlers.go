package handlers

import (
	"net/http"

	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// LineHandlers covers outbound lines and attaching them to campaigns.
type LineHandlers struct {
	campaignService services.CampaignService
}

func NewLineHandlers(campaignService services.CampaignService) *LineHandlers {
	return &LineHandlers{campaignService: campaignService}
}

// ListLines handles GET /api/lines.
func (h *LineHandlers) ListLines(c echo.Context) error {
	lines, err := h.campaignService.Lines(c.Request().Context())
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"lines":   lines,
	})
}

// SelectLine handles POST /api/campaigns/select-line.
func (h *LineHandlers) SelectLine(c echo.Context) error {
	var req struct {
		Autocall *int64 `json:"autocall"`
		ID       *int64 `json:"id"`
		Selected *bool  `json:"selected"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Autocall == nil || req.ID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID and line ID are required")
	}

	selected := true
	if req.Selected != nil {
		selected = *req.Selected
	}

	if err := h.campaignService.SelectLine(c.Request().Context(), *req.Autocall, *req.ID, selected); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Line selection updated",
	})
}
