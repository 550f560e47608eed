// Package services holds the verification-code flows of the client: the
// shared request/submit controller, login, the two-step registration and
// the member operations that need a session.
package services

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/codeauth/internal/client/cooldown"
	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

// CodeSender asks the backend to email a verification code.
type CodeSender func(ctx context.Context, email string) error

// SubmitFunc sends the final request of a flow with the entered code.
type SubmitFunc func(ctx context.Context, code string) error

// VerificationFlow guards the "request a code, then submit it" exchange
// shared by login and registration.
//
// Contract:
//   - at most one request or submit runs at a time; a second call gets
//     ErrOperationInFlight without touching the network;
//   - no code is requested while the cooldown is counting;
//   - the cooldown is armed only after the backend accepted the request;
//   - once closed, every call and every late response yields ErrFlowClosed.
type VerificationFlow struct {
	name     string
	timer    *cooldown.Timer
	logger   logging.Logger
	inFlight atomic.Bool
	closed   atomic.Bool
}

// NewVerificationFlow takes ownership of timer; Close releases it.
func NewVerificationFlow(name string, timer *cooldown.Timer, logger logging.Logger) *VerificationFlow {
	if logger == nil {
		logger = logging.Nop()
	}
	return &VerificationFlow{
		name:   name,
		timer:  timer,
		logger: logger.With("flow", name),
	}
}

// RequestCode validates email and, when allowed, calls send. It returns the
// normalized email the code was sent to.
func (f *VerificationFlow) RequestCode(ctx context.Context, email string, send CodeSender) (string, error) {
	if f.closed.Load() {
		return "", ErrFlowClosed
	}

	email, err := validateEmail(email)
	if err != nil {
		return "", err
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return "", ErrOperationInFlight
	}
	defer f.inFlight.Store(false)

	if remaining := f.timer.Remaining(); remaining > 0 {
		return "", &CooldownError{Remaining: remaining}
	}

	err = send(ctx, email)
	if f.closed.Load() {
		f.logger.Debug(ctx, "flow closed, discarding code request result")
		return "", ErrFlowClosed
	}
	if err != nil {
		f.logger.Warn(ctx, "verification code request failed", "email", common.MaskEmail(email), "error", err)
		return "", err
	}

	f.timer.Arm()
	f.logger.Info(ctx, "verification code sent", "email", common.MaskEmail(email))
	return email, nil
}

// Submit runs submit with the trimmed code. Errors from submit are returned
// unchanged.
func (f *VerificationFlow) Submit(ctx context.Context, code string, submit SubmitFunc) error {
	if f.closed.Load() {
		return ErrFlowClosed
	}
	if err := validateRequired("verification code", code); err != nil {
		return err
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer f.inFlight.Store(false)

	err := submit(ctx, strings.TrimSpace(code))
	if f.closed.Load() {
		f.logger.Debug(ctx, "flow closed, discarding submit result")
		return ErrFlowClosed
	}
	return err
}

// Cooldown returns the seconds left before a new code may be requested.
func (f *VerificationFlow) Cooldown() int { return f.timer.Remaining() }

// Close stops the cooldown. It is safe to call more than once.
func (f *VerificationFlow) Close() {
	if f.closed.Swap(true) {
		return
	}
	f.timer.Close()
}
