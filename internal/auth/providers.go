package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gtmctl/gtmctl/internal/logging"
)

// Providers resolves access tokens from the non-interactive credential
// sources and records which method is active.
//
// Resolution is an ordered chain evaluated first-match-wins: the
// environment key file always wins, then the saved auth method. An empty
// token with a nil error means no alternate source is configured and the
// caller falls back to OAuth.
type Providers struct {
	methods *MethodStore
	logger  *logging.Logger
	scopes  []string

	lookupEnv func(string) string
	mintKey   func(ctx context.Context, keyJSON []byte, scopes []string) (*oauth2.Token, error)
	findADC   func(ctx context.Context, scopes ...string) (*google.Credentials, error)
}

// NewProviders creates a provider chain backed by the real Google token
// sources.
func NewProviders(methods *MethodStore, logger *logging.Logger, scopes []string) *Providers {
	return &Providers{
		methods:   methods,
		logger:    logger,
		scopes:    scopes,
		lookupEnv: os.Getenv,
		mintKey:   mintServiceAccountToken,
		findADC:   google.FindDefaultCredentials,
	}
}

// AccessToken walks the resolver chain. Every mint failure is fatal; only
// an unconfigured source moves resolution along.
func (p *Providers) AccessToken(ctx context.Context) (string, error) {
	resolvers := []func(context.Context) (string, bool, error){
		p.envKeyToken,
		p.savedMethodToken,
	}
	for _, resolve := range resolvers {
		token, ok, err := resolve(ctx)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
	}
	return "", nil
}

// envKeyToken mints from the key file named by GTMCTL_SERVICE_ACCOUNT_KEY.
// It applies regardless of any saved auth method.
func (p *Providers) envKeyToken(ctx context.Context) (string, bool, error) {
	path := p.lookupEnv(EnvServiceAccountKey)
	if path == "" {
		return "", false, nil
	}
	p.logger.InfoVerbose("Using service account key from %s", EnvServiceAccountKey)
	key, err := ValidateKeyFile(path)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", EnvServiceAccountKey, err)
	}
	tok, err := p.mintKey(ctx, key.raw, p.scopes)
	if err != nil {
		return "", false, fmt.Errorf("failed to mint token for service account %s: %w", key.ClientEmail, err)
	}
	return tok.AccessToken, true, nil
}

// savedMethodToken consults the persisted auth method. Method "oauth", or
// no file at all, defers to the OAuth flow.
func (p *Providers) savedMethodToken(ctx context.Context) (string, bool, error) {
	cfg, err := p.methods.Load()
	if err != nil {
		return "", false, err
	}
	if cfg == nil || cfg.Method == MethodOAuth {
		return "", false, nil
	}

	switch cfg.Method {
	case MethodServiceAccount:
		key, err := ValidateKeyFile(cfg.ServiceAccountPath)
		if err != nil {
			return "", false, err
		}
		tok, err := p.mintKey(ctx, key.raw, p.scopes)
		if err != nil {
			return "", false, fmt.Errorf("failed to mint token for service account %s: %w", key.ClientEmail, err)
		}
		return tok.AccessToken, true, nil
	case MethodADC:
		creds, err := p.findADC(ctx, p.scopes...)
		if err != nil {
			return "", false, fmt.Errorf("application default credentials unavailable: %w", err)
		}
		tok, err := creds.TokenSource.Token()
		if err != nil {
			return "", false, fmt.Errorf("failed to mint token from application default credentials: %w", err)
		}
		return tok.AccessToken, true, nil
	default:
		return "", false, fmt.Errorf("unknown auth method %q", cfg.Method)
	}
}
