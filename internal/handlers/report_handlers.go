package handlers

import (
	"net/http"
	"strings"

	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers exposes per-campaign call results and summary reports.
type ReportHandlers struct {
	campaignService services.CampaignService
}

func NewReportHandlers(campaignService services.CampaignService) *ReportHandlers {
	return &ReportHandlers{campaignService: campaignService}
}

// CallResults handles GET /api/campaigns/:id/results.
func (h *ReportHandlers) CallResults(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	max, pos := paging(c)
	results, err := h.campaignService.CallResults(c.Request().Context(), id, max, pos)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// CallReport handles GET /api/campaigns/:id/report.
func (h *ReportHandlers) CallReport(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	report, err := h.campaignService.CallReport(c.Request().Context(), id)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}
