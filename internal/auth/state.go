// Package auth owns the application's in-memory login session. It restores a
// persisted session at startup, logs users in and out, and ends the session
// when the API rejects a dashboard request.
package auth

import (
	"errors"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/session"
)

// Status is the provider's lifecycle stage.
type Status int

const (
	StatusBootstrapping Status = iota
	StatusLoggingIn
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusBootstrapping:
		return "bootstrapping"
	case StatusLoggingIn:
		return "logging_in"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Token and User are both set or both
// empty.
type State struct {
	Status  Status
	Token   string
	User    *session.User
	Loading bool
	Error   string
}

// Authenticated reports whether a verified or freshly issued session is held.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != "" && s.User != nil
}

// DefaultLoginError is shown when a failed login carries no server message.
const DefaultLoginError = "Échec de la connexion"

// AuthenticationError is returned by Login when the credentials were not
// accepted or the login request failed.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is a failed login.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
