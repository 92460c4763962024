package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler returns Echo's central error handler for the relay.
//
// 404 and 405 are sent with empty bodies. A POST that fails routing is always
// reported as 404, since POST is only meaningful on the relay path. Other
// errors (body too large, rate limited, recovered panics) become
// {"error": "<message>"}.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}

		if code == http.StatusMethodNotAllowed && c.Request().Method == http.MethodPost {
			code = http.StatusNotFound
		}

		var writeErr error
		switch {
		case code == http.StatusNotFound, code == http.StatusMethodNotAllowed, c.Request().Method == http.MethodHead:
			writeErr = c.NoContent(code)
		default:
			writeErr = c.JSON(code, map[string]string{"error": msg})
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed", "err", err, "path", c.Request().URL.Path)
		}
		if writeErr != nil {
			logger.Error("write error response", "err", writeErr)
		}
	}
}
