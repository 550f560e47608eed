package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
)

func newRegistration(t *testing.T, c client.Client) *Registration {
	t.Helper()
	r := NewRegistration(c, frozenTimer(), nil)
	t.Cleanup(r.Close)
	return r
}

func TestRegistration_AdvanceSuccess(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)
	require.Equal(t, StepCollectingEmail, r.Step())

	require.NoError(t, r.Advance(context.Background(), " u@x.com"))
	assert.Equal(t, StepSettingCredentials, r.Step())
	assert.Equal(t, "u@x.com", r.Email())
	assert.Equal(t, 60, r.Cooldown())
	assert.Equal(t, 1, fc.Calls("RequestRegisterCode"))
}

func TestRegistration_AdvanceFailureKeepsStep(t *testing.T) {
	fc := newFakeClient()
	fc.requestRegisterCode = func(context.Context, string) error {
		return &client.BusinessError{Op: "request register code", Code: 1001, Message: "email already registered"}
	}
	r := newRegistration(t, fc)

	err := r.Advance(context.Background(), "u@x.com")
	assert.ErrorIs(t, err, client.ErrBusiness)
	assert.Equal(t, "email already registered", client.Message(err))
	assert.Equal(t, StepCollectingEmail, r.Step())
	assert.Empty(t, r.Email())
	assert.Zero(t, r.Cooldown())
}

func TestRegistration_AdvanceInvalidEmail(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)

	assert.ErrorIs(t, r.Advance(context.Background(), "x"), ErrValidation)
	assert.Equal(t, StepCollectingEmail, r.Step())
	assert.Zero(t, fc.Total())
}

func TestRegistration_PasswordMismatchMakesNoCall(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	err := r.Complete(context.Background(), "a", "b", "123456")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.Zero(t, fc.Calls("Register"))
	assert.Equal(t, StepSettingCredentials, r.Step())
}

func TestRegistration_EmptyPasswordMakesNoCall(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	assert.ErrorIs(t, r.Complete(context.Background(), "", "", "123456"), ErrValidation)
	assert.Zero(t, fc.Calls("Register"))
}

func TestRegistration_Complete(t *testing.T) {
	fc := newFakeClient()
	var got client.RegisterRequest
	fc.register = func(_ context.Context, req client.RegisterRequest) error {
		got = req
		return nil
	}
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	require.NoError(t, r.Complete(context.Background(), "pw", "pw", "123456"))
	assert.Equal(t, client.RegisterRequest{
		Email:            "u@x.com",
		Password:         "pw",
		ConfirmPassword:  "pw",
		VerificationCode: "123456",
	}, got)
	assert.Equal(t, StepCollectingEmail, r.Step())
	assert.Empty(t, r.Email())
}

func TestRegistration_CompleteFailureKeepsStep(t *testing.T) {
	fc := newFakeClient()
	fc.register = func(context.Context, client.RegisterRequest) error {
		return &client.BusinessError{Op: "register", Code: 1003, Message: "invalid verification code"}
	}
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	assert.ErrorIs(t, r.Complete(context.Background(), "pw", "pw", "000000"), client.ErrBusiness)
	assert.Equal(t, StepSettingCredentials, r.Step())
	assert.Equal(t, "u@x.com", r.Email())
}

func TestRegistration_WrongStep(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)

	assert.ErrorIs(t, r.Resend(context.Background()), ErrWrongStep)
	assert.ErrorIs(t, r.Complete(context.Background(), "pw", "pw", "1"), ErrWrongStep)
	assert.ErrorIs(t, r.Back(), ErrWrongStep)

	require.NoError(t, r.Advance(context.Background(), "u@x.com"))
	assert.ErrorIs(t, r.Advance(context.Background(), "v@x.com"), ErrWrongStep)
	assert.Equal(t, 1, fc.Total())
}

func TestRegistration_BackKeepsEmailAndCooldown(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	require.NoError(t, r.Back())
	assert.Equal(t, StepCollectingEmail, r.Step())
	assert.Equal(t, "u@x.com", r.Email())
	assert.Equal(t, 60, r.Cooldown())

	err := r.Advance(context.Background(), "u@x.com")
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Equal(t, 1, fc.Calls("RequestRegisterCode"))
}

func TestRegistration_ResendBlockedByCooldown(t *testing.T) {
	fc := newFakeClient()
	r := newRegistration(t, fc)
	require.NoError(t, r.Advance(context.Background(), "u@x.com"))

	assert.ErrorIs(t, r.Resend(context.Background()), ErrCooldownActive)
	assert.Equal(t, 1, fc.Calls("RequestRegisterCode"))
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "collecting email", StepCollectingEmail.String())
	assert.Equal(t, "setting credentials", StepSettingCredentials.String())
	assert.Equal(t, "unknown", Step(9).String())
}
