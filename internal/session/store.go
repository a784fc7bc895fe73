// Package session persists the client's login session: a bearer token paired
// with the user record it was issued for.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Storage keys.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyVersion = "session_version"
)

// SchemaVersion is written next to every saved session. Sessions saved under
// another version read as absent.
const SchemaVersion = "1"

var (
	// ErrNoSession is returned by Read when nothing usable is stored.
	ErrNoSession = errors.New("session: no session stored")
	// ErrCorrupt is returned by Read when the stored user record cannot be
	// decoded. The store has been cleared when it is returned.
	ErrCorrupt = errors.New("session: stored user is corrupt")
)

// User is the identity record kept next to the token.
type User struct {
	ID        string `json:"id" validate:"required"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone,omitempty"`
	Role      string `json:"role" validate:"required,oneof=ADMIN CLIENT"`
}

// IsAdmin reports whether the user may use dashboard routes.
func (u User) IsAdmin() bool {
	return u.Role == "ADMIN"
}

// Session is a token and its user. RawUser is the serialized user exactly as
// stored, which is what the verify endpoint expects.
type Session struct {
	Token   string
	User    User
	RawUser string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateUser checks the shape of a user record received from the server or
// read back from storage.
func ValidateUser(u User) error {
	return validate.Struct(u)
}

// DecodeUser parses and validates a serialized user record.
func DecodeUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, err
	}
	if err := ValidateUser(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Store reads and writes a Session in a Storage.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Save persists token and user. Any previous session is removed first and
// the token is written last, so an interrupted save reads back as absent.
func (s *Store) Save(token string, user User) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := ValidateUser(user); err != nil {
		return fmt.Errorf("session: invalid user: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.Clear(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.storage.SetItem(KeyVersion, SchemaVersion); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.storage.SetItem(KeyUser, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.storage.SetItem(KeyToken, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Read returns the stored session. Half-written, foreign-version and corrupt
// sessions are removed and reported as ErrNoSession or ErrCorrupt.
func (s *Store) Read() (Session, error) {
	sess, err := s.peek()
	if errors.Is(err, ErrNoSession) || errors.Is(err, ErrCorrupt) {
		if cerr := s.Clear(); cerr != nil {
			return Session{}, cerr
		}
	}
	return sess, err
}

// Token returns the persisted token when a complete session is stored. It
// never modifies storage.
func (s *Store) Token() (string, bool) {
	sess, err := s.peek()
	if err != nil {
		return "", false
	}
	return sess.Token, true
}

func (s *Store) peek() (Session, error) {
	token, okToken, err := s.storage.GetItem(KeyToken)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	raw, okUser, err := s.storage.GetItem(KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	version, _, err := s.storage.GetItem(KeyVersion)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	if !okToken || !okUser || token == "" || raw == "" || version != SchemaVersion {
		return Session{}, ErrNoSession
	}

	user, err := DecodeUser(raw)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Session{Token: token, User: user, RawUser: raw}, nil
}

// Clear removes every session key. Removing missing keys is not an error.
func (s *Store) Clear() error {
	for _, key := range []string{KeyToken, KeyUser, KeyVersion} {
		if err := s.storage.RemoveItem(key); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}
