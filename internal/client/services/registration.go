package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/cooldown"
	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

type Step int

const (
	StepCollectingEmail Step = iota
	StepSettingCredentials
)

func (s Step) String() string {
	switch s {
	case StepCollectingEmail:
		return "collecting email"
	case StepSettingCredentials:
		return "setting credentials"
	}
	return "unknown"
}

// Registration is the two-step sign-up: first an email that receives a
// code, then the password and that code.
//
// Advance is only valid while collecting the email; Resend, Complete and
// Back only while setting credentials. Anything else is ErrWrongStep.
// A failed call leaves the step unchanged.
type Registration struct {
	flow   *VerificationFlow
	client client.Client
	logger logging.Logger

	mu             sync.Mutex
	step           Step
	validatedEmail string
}

func NewRegistration(c client.Client, timer *cooldown.Timer, logger logging.Logger) *Registration {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registration{
		flow:   NewVerificationFlow("register", timer, logger),
		client: c,
		logger: logger.With("flow", "register"),
	}
}

func (r *Registration) Step() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Email is the address the last code was sent to, or "".
func (r *Registration) Email() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validatedEmail
}

func (r *Registration) Cooldown() int { return r.flow.Cooldown() }

// Advance requests a registration code for email and moves on to the
// credentials step.
func (r *Registration) Advance(ctx context.Context, email string) error {
	if r.Step() != StepCollectingEmail {
		return ErrWrongStep
	}

	email, err := r.flow.RequestCode(ctx, email, r.client.RequestRegisterCode)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.validatedEmail = email
	r.step = StepSettingCredentials
	r.mu.Unlock()
	return nil
}

// Resend requests another code for the email accepted by Advance.
func (r *Registration) Resend(ctx context.Context) error {
	if r.Step() != StepSettingCredentials {
		return ErrWrongStep
	}
	_, err := r.flow.RequestCode(ctx, r.Email(), r.client.RequestRegisterCode)
	return err
}

// Complete creates the account. On success the machine starts over at the
// email step; no session is created.
func (r *Registration) Complete(ctx context.Context, password, confirm, code string) error {
	if r.Step() != StepSettingCredentials {
		return ErrWrongStep
	}
	if err := validateRequired("password", password); err != nil {
		return err
	}
	if password != confirm {
		return &ValidationError{Field: "password", Reason: "does not match confirmation"}
	}

	email := r.Email()
	err := r.flow.Submit(ctx, code, func(ctx context.Context, code string) error {
		return r.client.Register(ctx, client.RegisterRequest{
			Email:            email,
			Password:         password,
			ConfirmPassword:  confirm,
			VerificationCode: code,
		})
	})
	if err != nil {
		r.logger.Warn(ctx, "registration failed", "email", common.MaskEmail(email), "error", err)
		return err
	}

	r.mu.Lock()
	r.step = StepCollectingEmail
	r.validatedEmail = ""
	r.mu.Unlock()

	r.logger.Info(ctx, "registered", "email", common.MaskEmail(email))
	return nil
}

// Back returns to the email step. The accepted email and the cooldown are
// kept.
func (r *Registration) Back() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.step != StepSettingCredentials {
		return ErrWrongStep
	}
	r.step = StepCollectingEmail
	return nil
}

func (r *Registration) Close() { r.flow.Close() }
