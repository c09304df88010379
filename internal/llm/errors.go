package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies provider failures for the orchestrator's retry and
// fallback decisions. The retryable class is fixed: rate limits, transient
// server errors, connection resets, and timeouts. Everything else (bad
// credentials, malformed requests) is terminal immediately; no retry or
// fallback attempts are spent on failures that cannot heal.
type ErrorKind int

const (
	KindTerminal ErrorKind = iota
	KindRateLimited
	KindServerError
	KindConnection
	KindTimeout
)

// ProviderError is the typed failure a transport surfaces.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsRetryable reports whether an error belongs to the fixed retryable class.
// Context deadline expiry counts: a timed-out call is aborted and retried
// without affecting sibling calls.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind != KindTerminal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// classifyStatus maps an HTTP status to an error kind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindTerminal
	}
}

// statusError builds a ProviderError from an HTTP response status and body.
func statusError(provider string, status int, body []byte) *ProviderError {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return &ProviderError{
		Provider: provider,
		Kind:     classifyStatus(status),
		Status:   status,
		Message:  msg,
	}
}

// transportError wraps a network-level failure as retryable connection error.
func transportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Provider: provider, Kind: KindTimeout, Message: err.Error()}
	}
	return &ProviderError{Provider: provider, Kind: KindConnection, Message: err.Error()}
}
