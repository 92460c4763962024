// Package middleware provides Echo middleware for CORS, logging and metrics.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"near-rpc-relay/internal/config"
)

// CORS returns an Echo middleware that sets the cross-origin headers on every
// response, including errors, and answers any OPTIONS request with 200 and an
// empty body without reaching the router's handler.
func CORS(cfg config.CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Set before next so error responses written later keep them.
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, cfg.AllowOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, cfg.AllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, cfg.AllowHeaders)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
