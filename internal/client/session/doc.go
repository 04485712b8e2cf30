// Package session owns the persisted access/refresh token pair and the
// volatile session-scoped scratch values. It is pure storage: deciding when
// to set or clear a session belongs to the services layer.
package session
