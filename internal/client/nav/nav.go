// Package nav models pending navigations. Flows and services never redirect
// by themselves; they return a Navigation value and the host performs it,
// which keeps delayed redirects cancellable and testable.
package nav

import (
	"net/url"
	"time"
)

// Route is an application-local destination.
type Route string

const (
	RouteHome               Route = "/"
	RouteLogin              Route = "/login"
	RouteRegister           Route = "/register"
	RouteDashboard          Route = "/dashboard"
	RouteResendVerification Route = "/resend-verification"
	RouteForgotPassword     Route = "/forgot-password"
)

// Navigation is a pending redirect. Either Route (with optional Query) or
// URL is set; URL wins when both are present. Delay of zero means navigate
// immediately.
type Navigation struct {
	Route Route
	Query url.Values
	URL   string
	Delay time.Duration
}

// To builds an immediate navigation to a route.
func To(r Route) Navigation {
	return Navigation{Route: r}
}

// ToAfter builds a delayed navigation to a route.
func ToAfter(r Route, delay time.Duration) Navigation {
	return Navigation{Route: r, Delay: delay}
}

// ToURLAfter builds a delayed navigation to an absolute URL, e.g. a direct
// verification link returned by the backend.
func ToURLAfter(u string, delay time.Duration) Navigation {
	return Navigation{URL: u, Delay: delay}
}

// WithQuery returns a copy of n with the query parameter set.
func (n Navigation) WithQuery(key, value string) Navigation {
	q := url.Values{}
	for k, vs := range n.Query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(key, value)
	n.Query = q
	return n
}

// Target renders the destination as a string for display and comparison.
func (n Navigation) Target() string {
	if n.URL != "" {
		return n.URL
	}
	t := string(n.Route)
	if len(n.Query) > 0 {
		t += "?" + n.Query.Encode()
	}
	return t
}
