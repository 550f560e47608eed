package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt status: the signed-in email and any running
// code cooldown.
func (a *App) getStatus() string {
	var parts []string
	if email, ok := a.store.CurrentEmail(); ok {
		parts = append(parts, email)
	}
	if n := a.login.Cooldown(); n > 0 {
		parts = append(parts, fmt.Sprintf("login code %ds", n))
	}
	if n := a.registration.Cooldown(); n > 0 {
		parts = append(parts, fmt.Sprintf("register code %ds", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to codeauth CLI (type 'help' for commands)")
	if email, ok := a.store.CurrentEmail(); ok {
		printlnFn("Restored session for", email)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
