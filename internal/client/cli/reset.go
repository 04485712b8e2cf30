package cli

import (
	"context"
	"os"

	"github.com/pitchview/client/internal/client/flows"
)

// Reset runs the password-reset flow for a token pasted from the reset link.
// The token is validated once before any password is asked for; local form
// errors keep prompting, while a rejected confirmation ends the flow.
func (a *App) Reset(ctx context.Context, token string) error {
	res := a.reset.Start(ctx, token)
	if res.State == flows.ResetStateError {
		printlnFn(res.Message)
		printlnFn("Use the 'forgot' command to request a new reset link.")
		return nil
	}

	for {
		password, err := getPassword(os.Stdout, "Enter new password")
		if err != nil {
			return err
		}
		if password == "" {
			printlnFn("Cancelled.")
			return nil
		}
		confirm, err := getPassword(os.Stdout, "Confirm new password")
		if err != nil {
			return err
		}

		res = a.reset.Submit(ctx, token, password, confirm)
		if res.State == flows.ResetStateIdle {
			// Local validation failed; the token is still good, try again.
			continue
		}
		break
	}

	if res.Message != "" {
		printlnFn(res.Message)
	}
	if res.State == flows.ResetStateError {
		printlnFn("Use the 'forgot' command to request a new reset link.")
		return nil
	}
	if res.Navigation != nil {
		a.navigate(ctx, *res.Navigation)
	}
	return nil
}
