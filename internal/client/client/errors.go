package client

import (
	"errors"
	"fmt"
)

var (
	ErrBusiness          = errors.New("request rejected")
	ErrTransport         = errors.New("transport error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrCredentialExpired = errors.New("credential expired")
)

// CodeCredentialExpired is the envelope result code the member API returns
// for an expired or revoked token.
const CodeCredentialExpired = 401

// BusinessError is a well-formed response whose result code is not zero.
type BusinessError struct {
	Op      string
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected with code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Message, e.Code)
}

func (e *BusinessError) Is(target error) bool {
	switch target {
	case ErrBusiness:
		return true
	case ErrCredentialExpired:
		return e.Code == CodeCredentialExpired
	}
	return false
}

// TransportError covers network failures, non-2xx statuses other than 401
// and malformed responses. StatusCode is 0 when no response arrived.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UnauthorizedError is an HTTP 401. By the time it is returned the
// Authorizer has already cleared the session.
type UnauthorizedError struct {
	Op      string
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unauthorized", e.Op)
	}
	return fmt.Sprintf("%s: unauthorized: %s", e.Op, e.Message)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Message extracts the server-provided message of a BusinessError,
// TransportError or UnauthorizedError, or "" for anything else.
func Message(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}
