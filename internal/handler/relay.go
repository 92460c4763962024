package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"near-rpc-relay/internal/model"
	"near-rpc-relay/internal/service"
)

// RPCPath is the only path the relay accepts JSON-RPC calls on.
const RPCPath = "/rpc"

// RelayHandler forwards JSON-RPC calls to the upstream endpoint.
type RelayHandler struct {
	service *service.RelayService
	logger  *slog.Logger
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *service.RelayService, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: svc,
		logger:  logger.With("component", "relay_handler"),
	}
}

// Handle reads the request body, relays it upstream and writes back the
// upstream body, or a JSON error object with status 500.
func (h *RelayHandler) Handle(c echo.Context) error {
	req := c.Request()

	// The server frames the body by Content-Length or chunked encoding; a
	// request with neither has an empty body, which is relayed as-is.
	body, err := io.ReadAll(req.Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return h.fail(c, &model.RelayError{
			Kind:    model.KindInternal,
			Message: "read request body: " + err.Error(),
			Err:     err,
		})
	}

	resp, err := h.service.Forward(&model.RelayRequest{
		Ctx:  req.Context(),
		Body: body,
	})
	if err != nil {
		var re *model.RelayError
		if !errors.As(err, &re) {
			re = &model.RelayError{Kind: model.KindInternal, Message: "upstream request failed", Err: err}
		}
		return h.fail(c, re)
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, resp.Body)
}

func (h *RelayHandler) fail(c echo.Context, re *model.RelayError) error {
	h.logger.Error("relay failed",
		"kind", re.Kind,
		"err", re.Error(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": re.Message,
	})
}
