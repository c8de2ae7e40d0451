package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func loginPayload() LoginPayload {
	return LoginPayload{
		AccessToken: "jwt-token",
		UserID:      "42",
		Username:    "kim",
		Email:       "kim@example.com",
	}
}

func TestNew_EmptyStorage(t *testing.T) {
	s, err := New(NewMemoryStorage(nil))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if s.IsLoggedIn() {
		t.Error("expected logged out session")
	}
	if s.Token() != "" {
		t.Errorf("expected empty token, got '%s'", s.Token())
	}
	if s.Snapshot().Status != StatusIdle {
		t.Errorf("expected status idle, got '%s'", s.Snapshot().Status)
	}
}

func TestNew_RestoresPersistedLogin(t *testing.T) {
	storage := NewMemoryStorage(map[string]string{
		KeyAccessToken: "persisted",
		KeyUserID:      "7",
		KeyUsername:    "lee",
		KeyEmail:       "lee@example.com",
	})

	s, err := New(storage)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	snap := s.Snapshot()
	if !snap.IsLoggedIn {
		t.Error("expected logged in session")
	}
	if snap.AccessToken != "persisted" || snap.UserID != "7" || snap.Username != "lee" || snap.Email != "lee@example.com" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestLogin_PersistsAllFieldsInOneWrite(t *testing.T) {
	storage := NewMemoryStorage(nil)
	s, _ := New(storage)

	if err := s.Login(loginPayload()); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	if storage.Writes() != 1 {
		t.Errorf("expected 1 storage write, got %d", storage.Writes())
	}

	values, _ := storage.Load()
	for _, key := range Keys {
		if values[key] == "" {
			t.Errorf("expected key '%s' to be persisted", key)
		}
	}

	snap := s.Snapshot()
	if !snap.IsLoggedIn || snap.Status != StatusSucceeded {
		t.Errorf("expected logged in with status succeeded, got %+v", snap)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	storage := NewMemoryStorage(nil)
	s, _ := New(storage)

	err := s.Login(LoginPayload{Username: "kim"})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if storage.Writes() != 0 {
		t.Errorf("expected no storage writes, got %d", storage.Writes())
	}
	if s.IsLoggedIn() {
		t.Error("expected session to stay logged out")
	}
}

func TestLogout_ClearsEveryKey(t *testing.T) {
	storage := NewMemoryStorage(nil)
	s, _ := New(storage)
	_ = s.Login(loginPayload())

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}

	values, _ := storage.Load()
	if len(values) != 0 {
		t.Errorf("expected no persisted keys after logout, got %v", values)
	}

	reloaded, err := New(storage)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if reloaded.IsLoggedIn() {
		t.Error("expected re-initialized session to be logged out")
	}
}

func TestFailLogin_ClearsCredentials(t *testing.T) {
	storage := NewMemoryStorage(nil)
	s, _ := New(storage)
	_ = s.Login(loginPayload())

	s.BeginLogin()
	if s.Snapshot().Status != StatusLoading {
		t.Errorf("expected status loading, got '%s'", s.Snapshot().Status)
	}

	if err := s.FailLogin(errors.New("bad credentials")); err != nil {
		t.Fatalf("FailLogin() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.IsLoggedIn || snap.AccessToken != "" {
		t.Errorf("expected credentials cleared, got %+v", snap)
	}
	if snap.Status != StatusFailed || snap.Error != "bad credentials" {
		t.Errorf("expected failed status with message, got %+v", snap)
	}
}

func TestUpdateProfile_PatchesOnlyChangedKeys(t *testing.T) {
	storage := NewMemoryStorage(nil)
	s, _ := New(storage)
	_ = s.Login(loginPayload())
	writesBefore := storage.Writes()

	if err := s.UpdateProfile(ProfilePayload{Username: "kim", Email: "new@example.com"}); err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}

	if storage.Writes() != writesBefore+1 {
		t.Errorf("expected exactly one write, got %d", storage.Writes()-writesBefore)
	}

	snap := s.Snapshot()
	if snap.Email != "new@example.com" {
		t.Errorf("expected email updated, got '%s'", snap.Email)
	}
	if snap.AccessToken != "jwt-token" || snap.UserID != "42" {
		t.Errorf("expected token and id untouched, got %+v", snap)
	}

	// Nothing changed: no write
	if err := s.UpdateProfile(ProfilePayload{Email: "new@example.com"}); err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}
	if storage.Writes() != writesBefore+1 {
		t.Errorf("expected no additional write for unchanged profile")
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.yaml")
	storage := NewFileStorage(path)

	s, err := New(storage)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := s.Login(loginPayload()); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected session file permissions 0600, got %v", info.Mode().Perm())
	}

	reloaded, err := New(NewFileStorage(path))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	snap := reloaded.Snapshot()
	if snap.AccessToken != "jwt-token" || snap.UserID != "42" || snap.Email != "kim@example.com" {
		t.Errorf("unexpected reloaded session: %+v", snap)
	}

	if err := reloaded.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	values, err := NewFileStorage(path).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty session file after logout, got %v", values)
	}
}

func TestFileStorage_MissingFile(t *testing.T) {
	values, err := NewFileStorage(filepath.Join(t.TempDir(), "none.yaml")).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty values, got %v", values)
	}
}
