package franklinwh

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when credentials are rejected or the
	// token is expired or invalid. Callers should obtain a fresh token via
	// [TokenProvider] and construct a new client.
	ErrAuthentication = errors.New("authentication rejected")
	// ErrAccountLocked is returned when the vendor reports the account as
	// locked during login. It always also matches [ErrAuthentication].
	ErrAccountLocked = errors.New("account locked")
	// ErrNetwork is returned when the vendor cannot be reached.
	ErrNetwork = errors.New("network failure")
	// ErrVendor is returned on a non-success response not attributable to
	// authentication.
	ErrVendor = errors.New("vendor error")
	// ErrDeviceTimeout is returned when the gateway did not answer a
	// passthrough command in time. It always also matches [ErrVendor].
	ErrDeviceTimeout = errors.New("device timeout")
	// ErrGatewayOffline is returned when the gateway is not connected to the
	// vendor cloud. It always also matches [ErrVendor].
	ErrGatewayOffline = errors.New("gateway offline")
	// ErrParse is returned when a response body is not valid JSON or lacks
	// an expected field.
	ErrParse = errors.New("unexpected response shape")
)

// vendor envelope codes with a dedicated meaning.
const (
	codeOK            = 200
	codeAccountLocked = 400
	codeUnauthorized  = 401
	codeDeviceTimeout = 102
	codeOffline       = 136
)

// AuthError reports a rejected login or an expired/invalid token.
// It matches [ErrAuthentication] with [errors.Is], and additionally
// [ErrAccountLocked] when the vendor locked the account.
type AuthError struct {
	// StatusCode is the HTTP status, or 200 when the rejection was carried
	// inside the response envelope.
	StatusCode int
	// Code is the vendor envelope code, 0 when rejected at the HTTP layer.
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication rejected (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication rejected: %s", e.Message)
}

func (e *AuthError) Unwrap() []error {
	if e.Code == codeAccountLocked {
		return []error{ErrAuthentication, ErrAccountLocked}
	}
	return []error{ErrAuthentication}
}

// NetworkError reports a transport-level failure (DNS, connect, timeout).
// It matches [ErrNetwork] and wraps the underlying transport error.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// VendorError reports a non-success response from the vendor that is not an
// authentication failure. It carries the HTTP status, the envelope code and
// message, and the raw body for diagnostics. It matches [ErrVendor], and
// additionally [ErrDeviceTimeout] or [ErrGatewayOffline] for the corresponding
// envelope codes.
type VendorError struct {
	StatusCode int
	Code       int
	Message    string
	Body       string
}

func (e *VendorError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vendor error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("vendor error: status %d", e.StatusCode)
}

func (e *VendorError) Unwrap() []error {
	switch e.Code {
	case codeDeviceTimeout:
		return []error{ErrVendor, ErrDeviceTimeout}
	case codeOffline:
		return []error{ErrVendor, ErrGatewayOffline}
	}
	return []error{ErrVendor}
}

// ParseError reports a response body that did not match the expected shape.
// It matches [ErrParse] and wraps the decode error when one exists.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response shape: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("unexpected response shape: %s", e.Detail)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}
