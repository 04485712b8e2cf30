package cli

import (
	"context"
	"os"
)

// Verify runs the email verification flow for a token pasted from the
// verification link. When the link is expired or invalid the user may request
// a fresh one by entering the account email.
func (a *App) Verify(ctx context.Context, token string) error {
	res := a.verify.Run(ctx, token)
	printlnFn(res.Message)

	if res.CanRegenerate() {
		email, err := getSimpleText(a.reader,
			"Enter your email to request a new verification link (leave empty to skip)", os.Stdout)
		if err != nil {
			return err
		}
		if email != "" {
			reg := a.verify.Regenerate(ctx, email)
			if reg.Message != "" {
				printlnFn(reg.Message)
			}
			if reg.Navigation != nil {
				a.navigate(ctx, *reg.Navigation)
			}
			return nil
		}
	}

	if res.Navigation != nil {
		a.navigate(ctx, *res.Navigation)
	}
	return nil
}
