// Package cli provides the interactive pitchview command-line client.
//
// It wires configuration, the local session store, the API client and the
// account flows into an interactive REPL. Typical flow: restore any stored
// session, then execute user commands.
//
// Key features:
//   - Login / Logout with session persistence
//   - Registration with automatic login
//   - Email verification, link regeneration and resend
//   - Password change and password reset
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// Flows return pending navigations instead of redirecting; the App performs
// them, waiting out any delay and honoring context cancellation.
// See App, navigate, and runREPL for details.
package cli
