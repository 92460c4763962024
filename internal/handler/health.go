package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"near-rpc-relay/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type statusResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Network        string `json:"network,omitempty"`
	UpstreamURL    string `json:"upstream_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Status returns relay status information.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status:         "ok",
		Version:        string(h.version),
		Network:        h.cfg.Upstream.Network,
		UpstreamURL:    h.cfg.Upstream.URL,
		TimeoutSeconds: h.cfg.Upstream.TimeoutSeconds,
	})
}
