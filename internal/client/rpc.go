// Package client provides the upstream HTTP client for the JSON-RPC endpoint.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"near-rpc-relay/internal/config"
	"near-rpc-relay/internal/metrics"
	"near-rpc-relay/internal/model"
)

// RPCClient sends requests to the upstream JSON-RPC endpoint.
type RPCClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewRPCClient creates an RPCClient with connection pooling and the configured timeout.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewRPCClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *RPCClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &RPCClient{
		httpClient: &http.Client{
			Transport: transport,
			// Covers connect, headers and reading the body.
			Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		logger:  logger.With("component", "rpc_client"),
		metrics: m,
	}
}

// Post sends body to url and reads the whole upstream response.
// Any status code is returned as a response; only transport failures are errors.
func (c *RPCClient) Post(ctx context.Context, url string, header http.Header, body []byte) (*model.RelayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	for key, vals := range header {
		req.Header[key] = vals
	}

	c.logger.Debug("upstream request", "bytes", len(body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(start, "")
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	c.observe(start, strconv.Itoa(resp.StatusCode))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	return &model.RelayResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// observe records upstream latency and, when a response arrived, its status code.
func (c *RPCClient) observe(start time.Time, status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if status != "" {
		c.metrics.UpstreamResponses.WithLabelValues(status).Inc()
	}
}
