package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pitchview/client/internal/client/flows"
	"github.com/pitchview/client/internal/client/services"
	"github.com/pitchview/client/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. When the account still
// needs email verification the outcome navigation leads to the resend page;
// either way the pending navigation is performed here.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	outcome, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.navigate(ctx, outcome.Navigation)
	return nil
}

// Register prompts for the registration form and creates an account. The
// email field is prefilled from the resend page's not-found handoff when one
// is pending. The password must satisfy the strength rules before any
// request is made.
func (a *App) Register(ctx context.Context) error {
	prompt := "Enter email"
	prefill := a.sessions.TakeScratch(session.RegistrationEmailKey)
	if prefill != "" {
		prompt = fmt.Sprintf("Enter email [%s]", prefill)
	}

	email, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = prefill
	}
	return a.register(ctx, email)
}

func (a *App) register(ctx context.Context, email string) error {
	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	if !flows.CheckPassword(password).Strong() {
		printlnFn("Password must be at least 8 characters and mix upper case, lower case, digits and symbols.")
		return nil
	}

	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}
	if confirm != password {
		printlnFn("Passwords do not match.")
		return nil
	}

	outcome, err := a.auth.Register(ctx, services.RegisterData{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return err
	}

	a.navigate(ctx, outcome.Navigation)
	return nil
}

// Logout clears the session and returns to the landing page.
func (a *App) Logout(ctx context.Context) error {
	n, err := a.auth.Logout(ctx)
	if err != nil {
		return err
	}
	a.navigate(ctx, n)
	return nil
}

// ChangePassword prompts for the old and new passwords and rotates the
// session to the freshly issued token pair on success.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword(os.Stdout, "Enter current password")
	if err != nil {
		return err
	}
	newPassword, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Confirm new password")
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(ctx, oldPassword, newPassword, confirm); err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			printlnFn("You need to log in first.")
			return nil
		}
		return err
	}
	return nil
}

// WhoAmI shows the account behind the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.auth.CheckSession(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>", user.Username, user.Email))
	return nil
}

// ForgotPassword starts a password reset for the given email. The response
// is intentionally the same whether or not the account exists.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter your account email", os.Stdout)
	if err != nil {
		return err
	}
	a.navigate(ctx, a.auth.RequestPasswordReset(ctx, email))
	return nil
}
