// Package httpx builds the HTTP clients shared by the chatlog and deepseek
// packages and classifies transport failures into the few buckets the UI
// distinguishes.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

var (
	// ErrTimeout marks connect or read deadlines being exceeded.
	ErrTimeout = errors.New("request timed out")
	// ErrConnection marks refused/reset connections and unreachable hosts.
	ErrConnection = errors.New("connection failed")
)

// StatusError reports a non-2xx response together with a body excerpt.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// NewClient returns a client with a split connect/read timeout policy. The
// read budget caps the whole exchange, so it only suits bounded responses.
func NewClient(connect, read time.Duration) *http.Client {
	return &http.Client{
		Timeout: read,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: connect}).DialContext,
			TLSHandshakeTimeout: connect,
		},
	}
}

// NewStreamingClient returns a client safe for long-lived response bodies:
// the dial and response-header phases are bounded, the body read is not.
func NewStreamingClient(connect, header time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
			TLSHandshakeTimeout:   connect,
			ResponseHeaderTimeout: header,
		},
	}
}

// Classify wraps transport errors with ErrTimeout or ErrConnection so callers
// can branch with errors.Is. Errors outside those buckets pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}
