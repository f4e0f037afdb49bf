package handlers

import (
	"context"
	"net/http"
	"time"

	"callpanel/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// SipuniStatus reports whether the vendor client has a token.
type SipuniStatus interface {
	Configured() bool
}

// HealthHandlers handles the liveness and readiness endpoints.
type HealthHandlers struct {
	db       *pgxpool.Pool
	cacheSvc caching.CacheService
	vendor   SipuniStatus
}

func NewHealthHandlers(db *pgxpool.Pool, cacheSvc caching.CacheService, vendor SipuniStatus) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
		vendor:   vendor,
	}
}

// HealthCheck handles GET /health. The vendor token being absent degrades
// the status but never fails the check; the panel still serves auth.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := map[string]string{}

	if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = "unhealthy"
		status = "degraded"
	} else {
		checks["database"] = "healthy"
	}

	if h.cacheSvc != nil {
		if err := h.cacheSvc.Ping(ctx); err != nil {
			checks["redis"] = "unhealthy"
			status = "degraded"
		} else {
			checks["redis"] = "healthy"
		}
	}

	if h.vendor != nil && !h.vendor.Configured() {
		checks["sipuni"] = "not_configured"
		status = "degraded"
	} else {
		checks["sipuni"] = "configured"
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusPartialContent
	}

	return c.JSON(code, map[string]interface{}{
		"status":    status,
		"services":  checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /health/ready. Only the database is critical.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}
