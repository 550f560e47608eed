// Package cli provides the interactive codeauth command-line client.
//
// It wires configuration, the session store and its SQLite mirror, the
// authorizing HTTP client and the verification-code flows, then runs a
// REPL until the user exits.
//
// Commands:
//   - register  (two steps; "resend" and "back" at the code prompt)
//   - login     (email, password and emailed code)
//   - lastlogin (previous login time, needs a session)
//   - status    (session and cooldowns)
//   - logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled. See App and runREPL for details.
package cli
