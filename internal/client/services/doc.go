// Package services contains the authentication orchestrator: login,
// registration, logout and password changes, including the branching that
// decides between errors, notifications and redirects.
package services
