package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrCooldownActive    = errors.New("verification code cooldown active")
	ErrOperationInFlight = errors.New("operation already in progress")
	ErrFlowClosed        = errors.New("flow closed")
	ErrWrongStep         = errors.New("not allowed in the current step")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrMissingToken      = errors.New("login response carried no token")
)

// ValidationError reports a rejected input field. No request was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// CooldownError is returned while the resend cooldown is counting.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %ds before requesting a new code", e.Remaining)
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldownActive }
