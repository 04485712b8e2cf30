package cli

import (
	"context"
	"net/url"
	"os"
)

// Resend requests a new verification email. An email given on the command
// line is submitted directly; otherwise the user is prompted.
func (a *App) Resend(ctx context.Context, email string) error {
	q := url.Values{}
	if email != "" {
		q.Set("email", email)
	}
	a.resendPage(ctx, q)
	return nil
}

// resendPage is the resend-verification page. It is entered either from the
// resend command or by a pending navigation, whose query parameters decide
// the behavior:
//
//   - success=true     — a verification email was just sent elsewhere; show
//     the confirmation and do not send again.
//   - from=registration — the address arrived from the registration flow;
//     prefill it but wait for the user to confirm before sending.
//   - email=<addr>      — a valid address with no from marker is submitted
//     immediately.
func (a *App) resendPage(ctx context.Context, q url.Values) {
	email := q.Get("email")
	fromRegistration := q.Get("from") == "registration"

	if q.Get("success") == "true" {
		printlnFn("Verification email sent! Please check your inbox.")
		return
	}

	if !a.resend.ShouldAutoSubmit(email, fromRegistration) {
		prompt := "Enter your account email"
		if email != "" {
			prompt = "Enter your account email [" + email + "]"
		}
		entered, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return
		}
		if entered != "" {
			email = entered
		}
	}

	res := a.resend.Send(ctx, email)
	if res.Message != "" {
		printlnFn(res.Message)
	}
	if res.Navigation != nil {
		a.navigate(ctx, *res.Navigation)
	}
}
