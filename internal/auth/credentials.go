package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CredentialRecord is a persisted OAuth grant. It is created by the login
// flow, replaced as a whole on refresh, and deleted on logout.
type CredentialRecord struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// ExpiresAt is a millisecond epoch timestamp.
	ExpiresAt int64  `json:"expiresAt"`
	TokenType string `json:"tokenType"`
	Scope     string `json:"scope"`
	UserEmail string `json:"userEmail,omitempty"`
	UserName  string `json:"userName,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// ExpiryTime returns ExpiresAt as a time.Time.
func (r *CredentialRecord) ExpiryTime() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// CredentialStore persists OAuth grants under the user config directory.
// The file is owner-only (0600); a missing file is a normal state reported
// as a nil record, not an error.
type CredentialStore struct {
	path string
	now  func() time.Time
}

// NewCredentialStore creates a store rooted at dir.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{
		path: filepath.Join(dir, credentialFileName),
		now:  time.Now,
	}
}

// Path returns the credential file location.
func (s *CredentialStore) Path() string {
	return s.path
}

// Save writes the record as pretty-printed JSON with a trailing newline,
// creating the config directory when needed.
func (s *CredentialStore) Save(rec *CredentialRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Load returns the stored record, or nil when no credential file exists.
func (s *CredentialStore) Load() (*CredentialRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	var rec CredentialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", s.path, err)
	}
	return &rec, nil
}

// Delete removes the credential file. An already-absent file is success.
func (s *CredentialStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

// IsExpired reports whether the record is inside the 5-minute expiry buffer.
func (s *CredentialStore) IsExpired(rec *CredentialRecord) bool {
	return !s.now().Before(rec.ExpiryTime().Add(-expiryBuffer))
}

// NeedsRefresh reports whether the record is inside the wider 10-minute
// refresh buffer. A record can need refresh while still being usable.
func (s *CredentialStore) NeedsRefresh(rec *CredentialRecord) bool {
	return !s.now().Before(rec.ExpiryTime().Add(-refreshBuffer))
}
