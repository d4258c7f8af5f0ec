package gateway

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is wrapped in a *GatewayError when no credentials are set.
var ErrNotConfigured = errors.New("generation service credentials not configured")

// GatewayError means the generation service could not be reached or refused
// the call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ParseError means the service answered but not with a usable JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gateway parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
