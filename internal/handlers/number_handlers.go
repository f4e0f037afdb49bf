package handlers

import (
	"net/http"
	"strings"

	"callpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// NumberHandlers covers the phone-number lists attached to campaigns.
type NumberHandlers struct {
	campaignService services.CampaignService
}

func NewNumberHandlers(campaignService services.CampaignService) *NumberHandlers {
	return &NumberHandlers{campaignService: campaignService}
}

// ListNumbers handles GET /api/campaigns/:id/numbers.
func (h *NumberHandlers) ListNumbers(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	max, pos := paging(c)
	numbers, err := h.campaignService.ListNumbers(c.Request().Context(), id, max, pos)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"numbers": numbers,
	})
}

// UploadNumbers handles POST /api/campaigns/:id/numbers. Accepts either a
// "numbers" array or a raw newline/comma separated "text" blob, the way a
// paste-from-spreadsheet form submits it.
func (h *NumberHandlers) UploadNumbers(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Campaign ID is required")
	}

	var req struct {
		Numbers []string `json:"numbers"`
		Text    string   `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	numbers := req.Numbers
	if len(numbers) == 0 && req.Text != "" {
		numbers = splitNumberBlob(req.Text)
	}
	if len(numbers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No phone numbers provided")
	}

	summary, err := h.campaignService.UploadNumbers(c.Request().Context(), id, numbers)
	if err != nil {
		return vendorError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

// splitNumberBlob splits pasted text on newlines, commas and semicolons.
func splitNumberBlob(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
