package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/services"
	"github.com/dmitrijs2005/codeauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const (
	codePrompt         = "Enter verification code"
	registerCodePrompt = "Enter verification code ('resend' for a new one, 'back' to change email)"
)

// Login asks for an email, requests a login code, then reads the password
// and the code and signs in.
//
// When a code was requested recently the cooldown message is shown and the
// user may still enter the code received earlier.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	sentTo, err := a.login.RequestCode(ctx, email)
	switch {
	case err == nil:
		printlnFn("Verification code sent to", sentTo)
	case errors.Is(err, services.ErrCooldownActive):
		printlnFn(describeError(err), "Enter the code you already received.")
	default:
		return a.report(err)
	}

	password, err := getPassword(ctx, a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	code, err := getSimpleText(a.reader, codePrompt, a.out)
	if err != nil {
		return err
	}

	cred, err := a.login.Login(ctx, email, string(password), code)
	if err != nil {
		return a.report(err)
	}

	printlnFn("Logged in as", cred.Email)
	if exp, ok := cred.ExpiresAt(); ok {
		printlnFn("Session valid until", exp.Local().Format(time.DateTime))
	}
	return nil
}

// Register walks both registration steps. An interrupted registration is
// restarted at the email step; an empty answer there reuses the email the
// last code was sent to.
func (a *App) Register(ctx context.Context) error {
	if a.registration.Step() == services.StepSettingCredentials {
		_ = a.registration.Back()
	}

	for {
		if err := a.registerEmail(ctx); err != nil {
			return err
		}
		back, err := a.registerCredentials(ctx)
		if err != nil || !back {
			return err
		}
	}
}

func (a *App) registerEmail(ctx context.Context) error {
	prompt := "Enter email"
	prev := a.registration.Email()
	if prev != "" {
		prompt = fmt.Sprintf("Enter email (empty for %s)", prev)
	}

	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" && prev != "" {
		email = prev
	}

	if err := a.registration.Advance(ctx, email); err != nil {
		return a.report(err)
	}
	printlnFn("Verification code sent to", a.registration.Email())
	return nil
}

// registerCredentials reads the password pair and the code until the
// account is created. It reports back=true when the user asked to change
// the email.
func (a *App) registerCredentials(ctx context.Context) (bool, error) {
	for {
		password, confirm, err := a.readNewPassword(ctx)
		if err != nil {
			return false, err
		}

		back, retryPassword, err := a.registerCode(ctx, password, confirm)
		common.WipeByteArray(password)
		common.WipeByteArray(confirm)
		if !retryPassword {
			return back, err
		}
	}
}

func (a *App) readNewPassword(ctx context.Context) (password, confirm []byte, err error) {
	password, err = getPassword(ctx, a.out, "Enter password")
	if err != nil {
		return nil, nil, err
	}
	confirm, err = getPassword(ctx, a.out, "Confirm password")
	if err != nil {
		common.WipeByteArray(password)
		return nil, nil, err
	}
	return password, confirm, nil
}

// registerCode handles the code prompt. retryPassword asks the caller to
// read the password pair again.
func (a *App) registerCode(ctx context.Context, password, confirm []byte) (back bool, retryPassword bool, _ error) {
	for {
		code, err := getSimpleText(a.reader, registerCodePrompt, a.out)
		if err != nil {
			return false, false, err
		}

		switch strings.ToLower(code) {
		case "back":
			if err := a.registration.Back(); err != nil {
				return false, false, a.report(err)
			}
			return true, false, nil

		case "resend":
			if err := a.registration.Resend(ctx); err != nil {
				_ = a.report(err)
			} else {
				printlnFn("Verification code sent to", a.registration.Email())
			}
			continue
		}

		err = a.registration.Complete(ctx, string(password), string(confirm), code)
		if err == nil {
			printlnFn("Registration successful, you can now log in.")
			return false, false, nil
		}
		_ = a.report(err)

		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve) && ve.Field == "password":
			return false, true, nil
		case errors.Is(err, services.ErrValidation), errors.Is(err, client.ErrBusiness):
			continue
		default:
			return false, false, err
		}
	}
}

// Logout ends the session on the server. The local session is cleared even
// when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.member.Logout(ctx)
	switch {
	case err == nil:
		printlnFn("Logged out")
	case errors.Is(err, services.ErrNotAuthenticated):
		return a.report(err)
	default:
		printlnFn("Logged out locally.", describeError(err))
	}
	return err
}
