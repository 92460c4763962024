// Package model defines shared types for the relay.
package model

import (
	"context"
	"net/http"
)

// Failure kinds reported by RelayError.
const (
	KindTimeout    = "timeout"
	KindDNS        = "dns"
	KindConnection = "connection"
	KindStatus     = "status"
	KindInternal   = "internal"
)

// RelayRequest is an inbound JSON-RPC call to be forwarded upstream.
// Body is opaque and sent verbatim.
type RelayRequest struct {
	Ctx  context.Context
	Body []byte
}

// RelayResponse is a fully read upstream response.
type RelayResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RelayError is the failure outcome of an upstream call. Message is safe to
// return to the caller; Err keeps the cause for logs.
type RelayError struct {
	Kind    string
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *RelayError) Unwrap() error {
	return e.Err
}
