// Package models holds the data types shared by the client layers.
package models

// User is the authenticated account as returned by the backend.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Identity is the reduced user shape the backend embeds in token-check
// responses and in verification error payloads.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenPair is the access/refresh credential pair issued at login,
// registration, verification or reset-confirm.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both halves of the pair are present.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}
