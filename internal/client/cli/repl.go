package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LastLogin(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the codeauth CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is cancelled or when the user types
// "exit" or "quit".
//
// Commands read their own prompts from the same reader, so the loop never
// reads ahead of the current line.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts:
//
//	help        show available commands
//	register    create an account (email, then password and code)
//	login       sign in with email, password and code
//	lastlogin   show the previous login time
//	status      show session and cooldowns
//	logout      end the session
//	exit | quit leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("codeauth %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) > 0 && !dispatch(ctx, a, parts[0]) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command and reports whether the loop should continue.
func dispatch(ctx context.Context, a execIface, cmd string) bool {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: lastlogin, status, logout, exit")
		} else {
			printlnFn("Available commands: register, login, status, exit")
		}

	case "register":
		_ = a.Register(ctx)

	case "login":
		_ = a.Login(ctx)

	case "lastlogin":
		_ = a.LastLogin(ctx)

	case "status":
		_ = a.Status(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return false

	default:
		printlnFn("Unknown command:", cmd)
	}
	return true
}
