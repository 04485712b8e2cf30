// Package flows implements the page-level state machines of the account
// lifecycle: email verification, password reset and resend-verification.
//
// Each flow is a value over the API client, session store and notifier.
// Methods take a context (cancellation replaces any notion of a page being
// "mounted") and return a result value holding the terminal state, a
// user-facing message, any recovered identity, and an optional pending
// navigation the host performs.
package flows
