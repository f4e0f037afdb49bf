package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"callpanel/internal/sipuni"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error as the {"error": "..."} envelope the
// frontend expects.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": message})
}

// vendorError maps Sipuni client failures to HTTP errors. Timeouts get 504,
// a missing token is a server configuration problem, and vendor rejections
// keep the vendor's message so the frontend can show it.
func vendorError(err error) error {
	if errors.Is(err, sipuni.ErrTimeout) {
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Sipuni API request timed out")
	}
	if errors.Is(err, sipuni.ErrNotConfigured) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Sipuni API is not configured: set SIPUNI_TOKEN")
	}

	var apiErr *sipuni.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, apiErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// paging reads max/pos query params with the vendor's defaults.
func paging(c echo.Context) (max, pos int) {
	max, pos = 100, 0
	if v := c.QueryParam("max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			max = n
		}
	}
	if v := c.QueryParam("pos"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			pos = n
		}
	}
	return max, pos
}
