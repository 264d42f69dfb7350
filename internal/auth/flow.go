package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/gtmctl/gtmctl/internal/logging"
)

// ErrLoginRequired is returned when no usable credential exists and the
// user has to run the interactive login.
var ErrLoginRequired = errors.New("not logged in")

// Endpoints points the auth flows at a provider. The zero value means
// Google; tests override individual fields with httptest URLs.
type Endpoints struct {
	AuthURL     string
	TokenURL    string
	UserinfoURL string
	RevokeURL   string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.AuthURL == "" {
		e.AuthURL = googleAuthURL
	}
	if e.TokenURL == "" {
		e.TokenURL = googleTokenURL
	}
	if e.UserinfoURL == "" {
		e.UserinfoURL = googleUserinfoURL
	}
	if e.RevokeURL == "" {
		e.RevokeURL = googleRevokeURL
	}
	return e
}

// FlowConfig configures a Flow. Store, Logger, ClientID and Scopes are
// required for login; the remaining fields default to production values.
type FlowConfig struct {
	Store        *CredentialStore
	Logger       *logging.Logger
	ClientID     string
	ClientSecret string
	Scopes       []string
	Endpoints    Endpoints
	RedirectURL  string
	HTTPClient   *http.Client
	OpenBrowser  func(url string) error
}

// Flow drives the interactive authorization-code login, transparent token
// refresh, and logout with revocation.
type Flow struct {
	store        *CredentialStore
	logger       *logging.Logger
	clientID     string
	clientSecret string
	scopes       []string
	endpoints    Endpoints
	redirectURL  string
	httpClient   *http.Client
	openBrowser  func(url string) error
}

// NewFlow creates a Flow from cfg.
func NewFlow(cfg FlowConfig) *Flow {
	f := &Flow{
		store:        cfg.Store,
		logger:       cfg.Logger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		endpoints:    cfg.Endpoints.withDefaults(),
		redirectURL:  cfg.RedirectURL,
		httpClient:   cfg.HTTPClient,
		openBrowser:  cfg.OpenBrowser,
	}
	if f.redirectURL == "" {
		f.redirectURL = callbackRedirectURL
	}
	if f.openBrowser == nil {
		f.openBrowser = openBrowser
	}
	return f
}

// generateStateToken returns a hex-encoded random token binding the
// authorization redirect to this login attempt.
func generateStateToken() (string, error) {
	buf := make([]byte, stateTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Login runs the interactive authorization-code flow: bind the loopback
// listener, send the browser to the consent page, wait for the redirect,
// exchange the code, fetch the user profile, and persist the record.
//
// Offline access with a forced consent prompt guarantees Google reissues a
// refresh token even when the user has authorized this client before.
func (f *Flow) Login(ctx context.Context) (*CredentialRecord, error) {
	if f.clientID == "" {
		return nil, errors.New("no OAuth client configured for this build")
	}

	state, err := generateStateToken()
	if err != nil {
		return nil, err
	}

	conf := f.oauthConfig()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	server, resultChan, err := startCallbackServer(&callbackServerConfig{
		redirectURL: f.redirectURL,
		state:       state,
		logger:      f.logger,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), callbackShutdownGrace)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	f.logger.Info("Opening browser for authorization...")
	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warning("Could not open browser automatically: %v", err)
		f.logger.Info("Please open this URL in your browser:")
		f.logger.Info("%s", authURL)
	}

	f.logger.Info("Waiting for authorization...")
	var result callbackResult
	select {
	case result = <-resultChan:
	case <-time.After(authorizationTimeout):
		return nil, errors.New("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if result.err != nil {
		return nil, result.err
	}

	f.logger.Success("Authorization code received")
	f.logger.Info("Exchanging code for access token...")
	tok, err := conf.Exchange(f.oauthContext(ctx), result.code)
	if err != nil {
		return nil, wrapRetrieveError("token exchange failed", err)
	}

	profile, err := f.fetchProfile(ctx, tok)
	if err != nil {
		return nil, err
	}

	rec := &CredentialRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.UnixMilli(),
		TokenType:    tok.TokenType,
		Scope:        grantedScope(tok, f.scopes),
		UserEmail:    profile.Email,
		UserName:     profile.Name,
		UserID:       profile.Id,
	}
	if err := f.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AccessToken returns a usable access token, refreshing first when the
// stored record is inside the refresh buffer. It never prompts the user.
func (f *Flow) AccessToken(ctx context.Context) (string, error) {
	rec, err := f.store.Load()
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("%w: run 'gtmctl auth login' first", ErrLoginRequired)
	}
	if f.store.NeedsRefresh(rec) {
		f.logger.InfoVerbose("Access token expires soon, refreshing...")
		rec, err = f.Refresh(ctx, rec)
		if err != nil {
			return "", err
		}
	}
	return rec.AccessToken, nil
}

// Refresh exchanges the record's refresh token for a new access token and
// persists the replacement. The previous refresh token is kept when the
// provider omits a new one.
func (f *Flow) Refresh(ctx context.Context, rec *CredentialRecord) (*CredentialRecord, error) {
	if rec.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored, run 'gtmctl auth login' to re-authenticate", ErrLoginRequired)
	}

	conf := f.oauthConfig()
	src := conf.TokenSource(f.oauthContext(ctx), &oauth2.Token{RefreshToken: rec.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, wrapRetrieveError("token refresh failed", err)
	}

	refreshed := *rec
	refreshed.AccessToken = tok.AccessToken
	refreshed.ExpiresAt = tok.Expiry.UnixMilli()
	if tok.TokenType != "" {
		refreshed.TokenType = tok.TokenType
	}
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := f.store.Save(&refreshed); err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// Logout best-effort revokes the stored tokens and always deletes the local
// record. Revocation failures are warnings: the token may already be
// invalid, and local removal is the primary goal.
func (f *Flow) Logout(ctx context.Context) error {
	rec, err := f.store.Load()
	if err != nil {
		return err
	}
	if rec != nil {
		f.revokeToken(ctx, rec.AccessToken)
		if rec.RefreshToken != "" {
			f.revokeToken(ctx, rec.RefreshToken)
		}
	}
	return f.store.Delete()
}

func (f *Flow) revokeToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	revokeURL := f.endpoints.RevokeURL + "?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, nil)
	if err != nil {
		f.logger.Warning("Failed to revoke token: %v", err)
		return
	}
	resp, err := f.client().Do(req)
	if err != nil {
		f.logger.Warning("Failed to revoke token: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		f.logger.Warning("Token revocation returned %s", resp.Status)
	}
}

func (f *Flow) fetchProfile(ctx context.Context, tok *oauth2.Token) (*googleoauth2.Userinfo, error) {
	f.logger.InfoVerbose("Fetching user profile...")
	svc, err := googleoauth2.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(tok)),
		option.WithEndpoint(f.endpoints.UserinfoURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return info, nil
}

func (f *Flow) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		RedirectURL:  f.redirectURL,
		Scopes:       f.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.endpoints.AuthURL,
			TokenURL: f.endpoints.TokenURL,
		},
	}
}

// oauthContext injects the configured HTTP client into the oauth2 library.
func (f *Flow) oauthContext(ctx context.Context) context.Context {
	if f.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}
	return ctx
}

func (f *Flow) client() *http.Client {
	if f.httpClient != nil {
		return f.httpClient
	}
	return http.DefaultClient
}

// grantedScope prefers the scope echoed by the token endpoint over the
// requested list.
func grantedScope(tok *oauth2.Token, requested []string) string {
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		return scope
	}
	return strings.Join(requested, " ")
}

// wrapRetrieveError surfaces the provider's response body when a token
// endpoint call is rejected.
func wrapRetrieveError(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && len(rerr.Body) > 0 {
		return fmt.Errorf("%s: %s: %s", op, rerr.Response.Status, strings.TrimSpace(string(rerr.Body)))
	}
	return fmt.Errorf("%s: %w", op, err)
}
