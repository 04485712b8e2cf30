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
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Verify(ctx context.Context, token string) error
	Reset(ctx context.Context, token string) error
	Resend(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the pitchview CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - verify <token>   — confirm an email verification link
//	  - reset <token>    — complete a password reset link
//	  - resend [email]   — request a new verification email
//	  - forgot           — start a password reset
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help             — show available commands
//	  - whoami           — show the current account
//	  - passwd           — change the password
//	  - verify <token>   — confirm an email verification link
//	  - logout           — log out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pv %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, passwd, verify <token>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, verify <token>, reset <token>, resend [email], forgot, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "verify":
			if len(args) == 0 {
				printlnFn("Usage: verify <token>")
				continue
			}
			_ = a.Verify(ctx, args[0])

		case "reset":
			if len(args) == 0 {
				printlnFn("Usage: reset <token>")
				continue
			}
			_ = a.Reset(ctx, args[0])

		case "resend":
			email := ""
			if len(args) > 0 {
				email = args[0]
			}
			_ = a.Resend(ctx, email)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
