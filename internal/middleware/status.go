package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// resolveStatus returns the status code the client will see. When a handler
// returns an *echo.HTTPError the response hasn't been written yet; Echo's
// central error handler does that later, so the code is taken from the error.
func resolveStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusMethodNotAllowed && c.Request().Method == http.MethodPost {
			return http.StatusNotFound
		}
		return he.Code
	}
	return http.StatusInternalServerError
}
