package services

import (
	"context"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/cooldown"
	"github.com/dmitrijs2005/codeauth/internal/client/session"
	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

// LoginFlow signs a user in with email, password and an emailed code.
//
// Contract:
//   - RequestCode: asks for a login code, subject to the cooldown.
//   - Login: exchanges the credentials for a token and stores it in the
//     session. The session is not touched on any failure.
//   - Close: stops the cooldown; late responses are discarded.
type LoginFlow struct {
	flow   *VerificationFlow
	client client.Client
	store  *session.Store
	logger logging.Logger
}

func NewLoginFlow(c client.Client, store *session.Store, timer *cooldown.Timer, logger logging.Logger) *LoginFlow {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LoginFlow{
		flow:   NewVerificationFlow("login", timer, logger),
		client: c,
		store:  store,
		logger: logger.With("flow", "login"),
	}
}

// RequestCode returns the normalized email the code was sent to.
func (l *LoginFlow) RequestCode(ctx context.Context, email string) (string, error) {
	return l.flow.RequestCode(ctx, email, l.client.RequestLoginCode)
}

func (l *LoginFlow) Login(ctx context.Context, email, password, code string) (session.Credential, error) {
	email, err := validateEmail(email)
	if err != nil {
		return session.Credential{}, err
	}
	if err := validateRequired("password", password); err != nil {
		return session.Credential{}, err
	}

	var token string
	err = l.flow.Submit(ctx, code, func(ctx context.Context, code string) error {
		var err error
		token, err = l.client.Login(ctx, client.LoginRequest{
			Email:            email,
			Password:         password,
			VerificationCode: code,
		})
		return err
	})
	if err != nil {
		l.logger.Warn(ctx, "login failed", "email", common.MaskEmail(email), "error", err)
		return session.Credential{}, err
	}

	if token == "" {
		l.logger.Warn(ctx, "login succeeded but no token was returned", "email", common.MaskEmail(email))
		return session.Credential{}, ErrMissingToken
	}

	l.store.Set(token, email)
	l.logger.Info(ctx, "logged in", "email", common.MaskEmail(email))
	return session.Credential{Token: token, Email: email}, nil
}

func (l *LoginFlow) Cooldown() int { return l.flow.Cooldown() }

func (l *LoginFlow) Close() { l.flow.Close() }
