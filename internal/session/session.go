// Package session holds the logged-in user's credentials and identity.
//
// Durable storage is read once when the Session is created and written on
// every mutation; the Session is the only writer. Login and Logout each
// persist in a single Storage call so a crash can never leave a partial
// session behind.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rodstewart/bidctl/internal/logging"
)

// Persisted keys
const (
	KeyAccessToken = "access_token"
	KeyUserID      = "user_id"
	KeyUsername    = "username"
	KeyEmail       = "email"
)

// Keys lists every key a session persists
var Keys = []string{KeyAccessToken, KeyUserID, KeyUsername, KeyEmail}

// Status tracks the login flow
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

var ErrMissingToken = errors.New("login response did not include an access token")

// Storage is durable key/value storage for session fields.
// Set and Remove must apply all given keys in one atomic write.
type Storage interface {
	Load() (map[string]string, error)
	Set(values map[string]string) error
	Remove(keys ...string) error
}

// Snapshot is a copy of the session state
type Snapshot struct {
	IsLoggedIn  bool   `json:"isLoggedIn"`
	AccessToken string `json:"-"`
	UserID      string `json:"userId,omitempty"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      Status `json:"status"`
	Error       string `json:"error,omitempty"`
}

// LoginPayload carries the fields returned by a successful login
type LoginPayload struct {
	AccessToken string
	UserID      string
	Username    string
	Email       string
}

// ProfilePayload carries profile fields that may change after login
type ProfilePayload struct {
	Username string
	Email    string
}

// Session is the in-memory view of the persisted login
type Session struct {
	mu      sync.RWMutex
	storage Storage
	state   Snapshot
}

// New reads the persisted session from storage
func New(storage Storage) (*Session, error) {
	values, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	token := values[KeyAccessToken]
	s := &Session{
		storage: storage,
		state: Snapshot{
			IsLoggedIn:  token != "",
			AccessToken: token,
			UserID:      values[KeyUserID],
			Username:    values[KeyUsername],
			Email:       values[KeyEmail],
			Status:      StatusIdle,
		},
	}
	return s, nil
}

// Token returns the access token, empty when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

// UserID returns the logged-in user's id, empty when logged out
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

// IsLoggedIn reports whether an access token is held
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoggedIn
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// BeginLogin marks a login attempt in flight
func (s *Session) BeginLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = StatusLoading
	s.state.Error = ""
}

// Login stores and persists every field of p
func (s *Session) Login(p LoginPayload) error {
	if p.AccessToken == "" {
		return ErrMissingToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(map[string]string{
		KeyAccessToken: p.AccessToken,
		KeyUserID:      p.UserID,
		KeyUsername:    p.Username,
		KeyEmail:       p.Email,
	}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.state = Snapshot{
		IsLoggedIn:  true,
		AccessToken: p.AccessToken,
		UserID:      p.UserID,
		Username:    p.Username,
		Email:       p.Email,
		Status:      StatusSucceeded,
	}
	logging.Log.Debug("session login", zap.String("user_id", p.UserID), zap.String("username", p.Username))
	return nil
}

// Logout clears every field and every persisted key.
// The in-memory state is cleared even when storage fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Snapshot{Status: StatusIdle}
	logging.Log.Debug("session logout")
	if err := s.storage.Remove(Keys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// FailLogin records a failed login attempt and clears any held credentials
func (s *Session) FailLogin(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	s.state = Snapshot{Status: StatusFailed, Error: msg}
	if err := s.storage.Remove(Keys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdateProfile patches username and email, leaving token and id untouched.
// Empty payload fields are ignored; only keys whose value changed are persisted.
func (s *Session) UpdateProfile(p ProfilePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := map[string]string{}
	if p.Username != "" && p.Username != s.state.Username {
		changed[KeyUsername] = p.Username
	}
	if p.Email != "" && p.Email != s.state.Email {
		changed[KeyEmail] = p.Email
	}

	s.state.Status = StatusSucceeded
	s.state.Error = ""
	if len(changed) == 0 {
		return nil
	}

	if err := s.storage.Set(changed); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	if v, ok := changed[KeyUsername]; ok {
		s.state.Username = v
	}
	if v, ok := changed[KeyEmail]; ok {
		s.state.Email = v
	}
	return nil
}
