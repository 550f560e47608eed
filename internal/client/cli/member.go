package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/codeauth/internal/client/services"
)

// LastLogin prints the time of the previous login. Nothing is sent when
// there is no session.
func (a *App) LastLogin(ctx context.Context) error {
	last, err := a.member.LastLoginTime(ctx)
	if err != nil {
		return a.report(err)
	}
	if last == "" {
		printlnFn("No previous login recorded")
		return nil
	}
	printlnFn("Last login:", formatTimestamp(last))
	return nil
}

// Status prints the server, the session and any pending code cooldowns.
func (a *App) Status(context.Context) error {
	printlnFn("Server:", a.config.ServerBaseURL)

	if cred, ok := a.store.Credential(); ok {
		printlnFn("Logged in as", cred.Email)
		if exp, ok := cred.ExpiresAt(); ok {
			printlnFn("Session valid until", exp.Local().Format(time.DateTime))
		}
	} else {
		printlnFn("Not logged in")
	}

	if n := a.login.Cooldown(); n > 0 {
		printlnFn(fmt.Sprintf("A new login code can be requested in %ds", n))
	}
	if a.registration.Step() == services.StepSettingCredentials {
		printlnFn("Registration pending for", a.registration.Email())
	}
	if n := a.registration.Cooldown(); n > 0 {
		printlnFn(fmt.Sprintf("A new registration code can be requested in %ds", n))
	}
	return nil
}

// formatTimestamp renders RFC 3339 times in local time and leaves anything
// else as the server sent it.
func formatTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format(time.DateTime)
}
