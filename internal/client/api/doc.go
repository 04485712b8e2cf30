// Package api implements the REST client for the backend auth endpoints.
//
// Authorization is explicit: methods that require it take the bearer token
// as an argument, and token-validation calls (check-token, verify-email,
// password-reset) have no token parameter at all, so a stale session can
// never influence them. Failures are returned as *Error with a classified
// Kind; callers branch on the kind, never on raw status codes.
package api
