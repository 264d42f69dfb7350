package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AuthMethod identifies which credential source is active.
type AuthMethod string

const (
	MethodOAuth          AuthMethod = "oauth"
	MethodServiceAccount AuthMethod = "service-account"
	MethodADC            AuthMethod = "adc"
)

// AuthMethodConfig records the active non-OAuth credential source. No file
// on disk means OAuth, the implicit default.
type AuthMethodConfig struct {
	Method              AuthMethod `json:"method"`
	ServiceAccountPath  string     `json:"serviceAccountPath,omitempty"`
	ServiceAccountEmail string     `json:"serviceAccountEmail,omitempty"`
}

func (c *AuthMethodConfig) validate() error {
	switch c.Method {
	case MethodOAuth, MethodADC:
		return nil
	case MethodServiceAccount:
		if c.ServiceAccountPath == "" {
			return errors.New("auth method service-account requires a key file path")
		}
		return nil
	default:
		return fmt.Errorf("unknown auth method %q", c.Method)
	}
}

// MethodStore persists the AuthMethodConfig next to the credential file.
type MethodStore struct {
	path string
}

// NewMethodStore creates a store rooted at dir.
func NewMethodStore(dir string) *MethodStore {
	return &MethodStore{path: filepath.Join(dir, methodFileName)}
}

// Path returns the auth-method file location.
func (s *MethodStore) Path() string {
	return s.path
}

// Save writes the config as pretty-printed JSON with a trailing newline.
func (s *MethodStore) Save(cfg *AuthMethodConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode auth method: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write auth method: %w", err)
	}
	return nil
}

// Load returns the stored config, or nil when no auth-method file exists.
func (s *MethodStore) Load() (*AuthMethodConfig, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth method: %w", err)
	}
	var cfg AuthMethodConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse auth method file %s: %w", s.path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid auth method file %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Clear removes the auth-method file. An already-absent file is success.
func (s *MethodStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete auth method: %w", err)
	}
	return nil
}
