package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ServiceAccountKey is the subset of a Google service account JSON key that
// gtmctl validates and displays.
type ServiceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`

	raw []byte
}

// ValidateKeyFile reads and validates a service account key file. The error
// distinguishes a missing file, invalid JSON, and missing required fields.
func ValidateKeyFile(path string) (*ServiceAccountKey, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("service account key file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}

	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("service account key %s is not valid JSON: %w", path, err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("%s is not a service account key (type %q)", path, key.Type)
	}
	if key.PrivateKey == "" || key.ClientEmail == "" {
		return nil, fmt.Errorf("service account key %s is missing private_key or client_email", path)
	}
	key.raw = data
	return &key, nil
}

// LoginWithServiceAccount validates the key, mints one token to prove the
// key is usable, and records service-account as the active method. The
// OAuth credential record is left untouched.
func (p *Providers) LoginWithServiceAccount(ctx context.Context, path string) (*AuthMethodConfig, error) {
	key, err := ValidateKeyFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := p.mintKey(ctx, key.raw, p.scopes); err != nil {
		return nil, fmt.Errorf("service account key is not usable: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	cfg := &AuthMethodConfig{
		Method:              MethodServiceAccount,
		ServiceAccountPath:  absPath,
		ServiceAccountEmail: key.ClientEmail,
	}
	if err := p.methods.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mintServiceAccountToken builds a JWT config from the key and performs one
// token grant.
func mintServiceAccountToken(ctx context.Context, keyJSON []byte, scopes []string) (*oauth2.Token, error) {
	conf, err := google.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return conf.TokenSource(ctx).Token()
}
