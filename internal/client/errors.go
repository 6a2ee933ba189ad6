// Package client holds what the HTTP clients of downstream services share.
package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is wrapped by DownstreamError when a service rejects our credentials
	ErrUnauthorized = errors.New("downstream service rejected credentials")

	// ErrNotFound is wrapped by DownstreamError when a service reports the resource missing
	ErrNotFound = errors.New("downstream resource not found")
)

// DownstreamError reports a failed call to a collaborator. Status is 0 when no response arrived.
type DownstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *DownstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s responded %d: %v", e.Service, e.Status, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// StatusError builds the DownstreamError for a non-2xx response, keeping a short body excerpt.
func StatusError(service string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(excerpt))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var err error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		err = fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		err = fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		err = errors.New(msg)
	}
	return &DownstreamError{Service: service, Status: resp.StatusCode, Err: err}
}

// TransportError wraps a failure that happened before any response arrived.
func TransportError(service string, err error) error {
	return &DownstreamError{Service: service, Err: err}
}

// TokenSource issues the service-to-service token sent with every downstream call.
type TokenSource interface {
	ServiceToken() (string, error)
}
