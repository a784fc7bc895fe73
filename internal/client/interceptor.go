package client

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// DefaultLoginEndpoint identifies credential requests, which are sent without
// a bearer token unless the application is on a dashboard page.
const DefaultLoginEndpoint = "/api/auth/login"

// DefaultDashboardPrefix marks locations reserved for authenticated users.
const DefaultDashboardPrefix = "/dashboard"

// TokenSource returns the currently persisted bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// Interceptor decorates outgoing requests with the persisted bearer token and
// reports 401 answers received while on a dashboard page.
type Interceptor struct {
	Tokens    TokenSource
	Navigator Navigator

	// OnUnauthorized runs after a dashboard-scoped request was answered with
	// 401. It must be safe to call more than once.
	OnUnauthorized func()

	DashboardPrefix string
	LoginEndpoint   string
	Logger          *slog.Logger
	Metrics         *Metrics
}

func (i *Interceptor) dashboardPrefix() string {
	if i.DashboardPrefix == "" {
		return DefaultDashboardPrefix
	}
	return i.DashboardPrefix
}

func (i *Interceptor) loginEndpoint() string {
	if i.LoginEndpoint == "" {
		return DefaultLoginEndpoint
	}
	return i.LoginEndpoint
}

func (i *Interceptor) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}

// IsLoginEndpoint reports whether req targets the credential endpoint.
func (i *Interceptor) IsLoginEndpoint(req *http.Request) bool {
	return req.URL != nil && strings.Contains(req.URL.Path, i.loginEndpoint())
}

// OnDashboard reports whether the current location is dashboard-scoped.
func (i *Interceptor) OnDashboard() bool {
	if i.Navigator == nil {
		return false
	}
	return strings.HasPrefix(locationPath(i.Navigator.Location()), i.dashboardPrefix())
}

// ShouldAuthorize decides whether req gets the bearer header: a token must be
// stored, and the target must not be the login endpoint unless the
// application is on a dashboard page.
func ShouldAuthorize(hasToken, loginEndpoint, dashboard bool) bool {
	return hasToken && (dashboard || !loginEndpoint)
}

// Install makes hc send every request through the interceptor and returns a
// func restoring the transport hc had before. Installing over another
// interceptor replaces it rather than stacking. The returned func is safe to
// call more than once.
//
// Install and restore must not race with requests on hc.
func (i *Interceptor) Install(hc *http.Client) (restore func()) {
	prev := hc.Transport

	next := prev
	if at, ok := prev.(*authTransport); ok {
		next = at.next
	}
	if next == nil {
		next = http.DefaultTransport
	}

	hc.Transport = &authTransport{interceptor: i, next: next}

	var once sync.Once
	return func() {
		once.Do(func() {
			hc.Transport = prev
		})
	}
}

type authTransport struct {
	interceptor *Interceptor
	next        http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	in := t.interceptor

	token, hasToken := "", false
	if in.Tokens != nil {
		token, hasToken = in.Tokens.Token()
	}

	out := req
	if ShouldAuthorize(hasToken, in.IsLoginEndpoint(req), in.OnDashboard()) {
		// RoundTrippers must not modify the caller's request
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+token)
		in.Metrics.observeDecorated()
	}

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		in.logger().Error("request failed",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"error", err,
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && in.OnDashboard() {
		in.Metrics.observeUnauthorized()
		in.logger().Warn("session rejected on dashboard request",
			"method", req.Method,
			"path", req.URL.Path,
		)
		if in.OnUnauthorized != nil {
			in.OnUnauthorized()
		}
	}
	return resp, nil
}
