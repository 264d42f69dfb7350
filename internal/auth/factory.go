package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/logging"
)

// ClientFactory resolves credentials and builds authenticated Tag Manager
// clients. The previous client is reused while the resolved access token is
// unchanged; any token change produces a fresh client.
type ClientFactory struct {
	flow      *Flow
	providers *Providers
	logger    *logging.Logger
	endpoint  string

	mu          sync.Mutex
	cachedToken string
	cached      *tagmanager.Service
}

// NewClientFactory creates a factory over the OAuth flow and the alternate
// provider chain.
func NewClientFactory(flow *Flow, providers *Providers, logger *logging.Logger) *ClientFactory {
	return &ClientFactory{
		flow:      flow,
		providers: providers,
		logger:    logger,
	}
}

// SetEndpoint overrides the Tag Manager API base URL.
func (cf *ClientFactory) SetEndpoint(endpoint string) {
	cf.endpoint = endpoint
}

// Client returns an authenticated Tag Manager client bound to the resolved
// access token.
func (cf *ClientFactory) Client(ctx context.Context) (*tagmanager.Service, error) {
	token, err := cf.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.cached != nil && cf.cachedToken == token {
		cf.logger.Debug("Reusing cached Tag Manager client")
		return cf.cached, nil
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		})),
	}
	if cf.endpoint != "" {
		opts = append(opts, option.WithEndpoint(cf.endpoint))
	}
	svc, err := tagmanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build Tag Manager client: %w", err)
	}

	cf.cached = svc
	cf.cachedToken = token
	return svc, nil
}

// resolveToken asks the alternate providers first and falls back to the
// OAuth flow, which refreshes transparently.
func (cf *ClientFactory) resolveToken(ctx context.Context) (string, error) {
	token, err := cf.providers.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	return cf.flow.AccessToken(ctx)
}

// Status describes the active credential for display.
type Status struct {
	Authenticated bool       `json:"authenticated"`
	Method        AuthMethod `json:"method"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	ExpiresAt     time.Time  `json:"expiresAt,omitzero"`
	NeedsRefresh  bool       `json:"needsRefresh"`
}

// Status reports which credential source is active without minting a token.
// Precedence mirrors resolveToken: environment key, saved method, OAuth.
func (cf *ClientFactory) Status() (*Status, error) {
	if path := cf.providers.lookupEnv(EnvServiceAccountKey); path != "" {
		key, err := ValidateKeyFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvServiceAccountKey, err)
		}
		return &Status{
			Authenticated: true,
			Method:        MethodServiceAccount,
			Email:         key.ClientEmail,
		}, nil
	}

	cfg, err := cf.providers.methods.Load()
	if err != nil {
		return nil, err
	}
	if cfg != nil && cfg.Method != MethodOAuth {
		return &Status{
			Authenticated: true,
			Method:        cfg.Method,
			Email:         cfg.ServiceAccountEmail,
		}, nil
	}

	rec, err := cf.flow.store.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &Status{Method: MethodOAuth}, nil
	}
	return &Status{
		Authenticated: true,
		Method:        MethodOAuth,
		Email:         rec.UserEmail,
		Name:          rec.UserName,
		ExpiresAt:     rec.ExpiryTime(),
		NeedsRefresh:  cf.flow.store.NeedsRefresh(rec),
	}, nil
}
