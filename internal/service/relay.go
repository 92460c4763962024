// Package service implements the JSON-RPC relay logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"near-rpc-relay/internal/client"
	"near-rpc-relay/internal/config"
	"near-rpc-relay/internal/metrics"
	"near-rpc-relay/internal/model"
)

const userAgent = "near-rpc-relay/1.0"

// RelayService forwards opaque JSON-RPC bodies to the fixed upstream.
type RelayService struct {
	client  *client.RPCClient
	logger  *slog.Logger
	metrics *metrics.Metrics
	target  string
	timeout time.Duration
}

// NewRelayService creates a RelayService. The metrics parameter may be nil.
func NewRelayService(c *client.RPCClient, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*RelayService, error) {
	u, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("upstream url %q is not absolute", cfg.Upstream.URL)
	}

	return &RelayService{
		client:  c,
		logger:  logger.With("component", "relay_service"),
		metrics: m,
		target:  u.String(),
		timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
	}, nil
}

// Forward posts the request body to the upstream and returns its response.
// Every failure, including a non-2xx upstream status, is returned as a
// *model.RelayError.
//
// The upstream call does not observe cancellation of rr.Ctx: once issued it
// runs until it completes or the upstream timeout elapses.
func (s *RelayService) Forward(rr *model.RelayRequest) (*model.RelayResponse, error) {
	ctx := context.WithoutCancel(rr.Ctx)

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", userAgent)

	s.logger.Debug("forwarding request", "bytes", len(rr.Body))

	resp, err := s.client.Post(ctx, s.target, header, rr.Body)
	if err != nil {
		return nil, s.fail(s.classify(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.fail(&model.RelayError{
			Kind:    model.KindStatus,
			Message: fmt.Sprintf("upstream returned HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		})
	}

	return resp, nil
}

// fail records the failure kind before handing the error back.
func (s *RelayService) fail(re *model.RelayError) *model.RelayError {
	if s.metrics != nil {
		s.metrics.UpstreamFailures.WithLabelValues(re.Kind).Inc()
	}
	return re
}

// classify maps a transport error to a RelayError. Messages leave out the
// upstream URL since hosted endpoints often carry a key in it.
func (s *RelayService) classify(err error) *model.RelayError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &model.RelayError{
			Kind:    model.KindTimeout,
			Message: fmt.Sprintf("upstream request timed out after %s", s.timeout),
			Err:     err,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &model.RelayError{
			Kind:    model.KindDNS,
			Message: "upstream host unreachable: " + dnsErr.Error(),
			Err:     err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &model.RelayError{
			Kind:    model.KindConnection,
			Message: "upstream connection failed: " + urlErr.Err.Error(),
			Err:     err,
		}
	}

	return &model.RelayError{
		Kind:    model.KindInternal,
		Message: "upstream request failed",
		Err:     err,
	}
}
