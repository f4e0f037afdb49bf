package handlers

import (
	"net/http"
	"strings"

	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// CampaignHandlers proxies campaign CRUD and lifecycle to the vendor.
type CampaignHandlers struct {
	campaignService services.CampaignService
}

func NewCampaignHandlers(campaignService services.CampaignService) *CampaignHandlers {
	return &CampaignHandlers{campaignService: campaignService}
}

// ListCampaigns handles GET /api/campaigns.
func (h *CampaignHandlers) ListCampaigns(c echo.Context) error {
	max, pos := paging(c)

	campaigns, err := h.campaignService.ListCampaigns(c.Request().Context(), max, pos)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"campaigns": campaigns,
	})
}

// GetCampaign handles GET /api/campaigns/:id.
func (h *CampaignHandlers) GetCampaign(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	campaign, err := h.campaignService.GetCampaign(c.Request().Context(), id)
	if err != nil {
		return vendorError(err)
	}
	if campaign == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Campaign not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"campaign": campaign,
	})
}

// CreateCampaign handles POST /api/campaigns.
func (h *CampaignHandlers) CreateCampaign(c echo.Context) error {
	var req services.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign name is required")
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request().Context(), &req)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":  true,
		"campaign": campaign,
	})
}

// UpdateCampaign handles PUT /api/campaigns/:id. Fields are forwarded
// as-is; the vendor validates them.
func (h *CampaignHandlers) UpdateCampaign(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	result, err := h.campaignService.UpdateCampaign(c.Request().Context(), id, fields)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// DeleteCampaign handles DELETE /api/campaigns/:id.
func (h *CampaignHandlers) DeleteCampaign(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	if err := h.campaignService.DeleteCampaign(c.Request().Context(), id); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Campaign deleted",
	})
}

// StartCampaign handles POST /api/campaigns/:id/start.
func (h *CampaignHandlers) StartCampaign(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	if err := h.campaignService.StartCampaign(c.Request().Context(), id); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Campaign started",
	})
}

// StopCampaign handles POST /api/campaigns/:id/stop.
func (h *CampaignHandlers) StopCampaign(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	if err := h.campaignService.StopCampaign(c.Request().Context(), id); err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Campaign stopped",
	})
}
