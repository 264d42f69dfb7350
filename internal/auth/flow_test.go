package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestGenerateStateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := generateStateToken()
		if err != nil {
			t.Fatalf("generateStateToken() error: %v", err)
		}
		if len(state) != 2*stateTokenLength {
			t.Fatalf("state length = %d, want %d", len(state), 2*stateTokenLength)
		}
		if _, err := hex.DecodeString(state); err != nil {
			t.Fatalf("state %q is not hex: %v", state, err)
		}
		if seen[state] {
			t.Fatalf("state %q generated twice", state)
		}
		seen[state] = true
	}
}

// approveAuthorization returns an openBrowser stub acting like a user who
// approves the consent screen: it follows the redirect back to the loopback
// listener with the given code and the state echoed from the authorization
// URL.
func approveAuthorization(t *testing.T, code string) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if q.Get("access_type") != "offline" {
			t.Errorf("authorization URL access_type = %q, want offline", q.Get("access_type"))
		}
		if q.Get("prompt") != "consent" {
			t.Errorf("authorization URL prompt = %q, want consent", q.Get("prompt"))
		}
		redirect := q.Get("redirect_uri")
		state := q.Get("state")
		go func() {
			resp, err := http.Get(redirect + "?code=" + url.QueryEscape(code) + "&state=" + url.QueryEscape(state))
			if err != nil {
				t.Errorf("callback request failed: %v", err)
				return
			}
			resp.Body.Close()
		}()
		return nil
	}
}

// redirectWithQuery returns an openBrowser stub that hits the loopback
// listener with a fixed query string, ignoring the state the flow issued.
func redirectWithQuery(t *testing.T, rawQuery string) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		redirect := u.Query().Get("redirect_uri")
		go func() {
			resp, err := http.Get(redirect + "?" + rawQuery)
			if err != nil {
				t.Errorf("callback request failed: %v", err)
				return
			}
			resp.Body.Close()
		}()
		return nil
	}
}

func TestLoginHappyPath(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()
	mock.accessToken = "A"
	mock.email = "e@x.com"

	flow, store := newTestFlow(t, mock, 18780)
	flow.openBrowser = approveAuthorization(t, "server-code")

	rec, err := flow.Login(context.Background())
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if rec.AccessToken != "A" {
		t.Errorf("AccessToken = %q, want %q", rec.AccessToken, "A")
	}
	if rec.RefreshToken != "mock-refresh-token" {
		t.Errorf("RefreshToken = %q, want %q", rec.RefreshToken, "mock-refresh-token")
	}
	if rec.UserEmail != "e@x.com" {
		t.Errorf("UserEmail = %q, want %q", rec.UserEmail, "e@x.com")
	}
	if rec.UserName != "Test User" {
		t.Errorf("UserName = %q, want %q", rec.UserName, "Test User")
	}
	if rec.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", rec.TokenType)
	}
	if rec.Scope != mock.scope {
		t.Errorf("Scope = %q, want %q", rec.Scope, mock.scope)
	}

	wantExpiry := time.Now().Add(time.Hour)
	if got := rec.ExpiryTime(); got.Before(wantExpiry.Add(-time.Minute)) || got.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", got, wantExpiry)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded == nil || loaded.AccessToken != "A" {
		t.Errorf("persisted record = %+v, want access token %q", loaded, "A")
	}

	form := mock.LastTokenForm()
	if form.Get("grant_type") != "authorization_code" {
		t.Errorf("grant_type = %q, want authorization_code", form.Get("grant_type"))
	}
	if form.Get("code") != "server-code" {
		t.Errorf("code = %q, want server-code", form.Get("code"))
	}
	if form.Get("redirect_uri") != "http://127.0.0.1:18780/callback" {
		t.Errorf("redirect_uri = %q", form.Get("redirect_uri"))
	}
	if got := mock.UserinfoRequestCount(); got != 1 {
		t.Errorf("userinfo requests = %d, want 1", got)
	}
}

func TestLoginRejectsForgedState(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, store := newTestFlow(t, mock, 18781)
	flow.openBrowser = redirectWithQuery(t, "code=stolen-code&state=forged")

	_, err := flow.Login(context.Background())
	if err == nil {
		t.Fatal("Login() with forged state returned nil error")
	}
	if !strings.Contains(err.Error(), "state mismatch (CSRF protection)") {
		t.Errorf("Login() error = %v, want state mismatch", err)
	}

	// Nothing is persisted and no exchange is attempted.
	rec, err := store.Load()
	if err != nil || rec != nil {
		t.Errorf("Load() after forged state = %+v, %v; want nil, nil", rec, err)
	}
	if got := mock.TokenRequestCount(); got != 0 {
		t.Errorf("token requests = %d, want 0", got)
	}
}

func TestLoginAuthorizationDenied(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, store := newTestFlow(t, mock, 18782)
	flow.openBrowser = redirectWithQuery(t, "error=access_denied&error_description=User+denied+access")

	_, err := flow.Login(context.Background())
	if err == nil {
		t.Fatal("Login() after denied consent returned nil error")
	}
	if !strings.Contains(err.Error(), "access_denied") {
		t.Errorf("Login() error = %v, want containing access_denied", err)
	}

	rec, err := store.Load()
	if err != nil || rec != nil {
		t.Errorf("Load() after denied consent = %+v, %v; want nil, nil", rec, err)
	}
	if got := mock.TokenRequestCount(); got != 0 {
		t.Errorf("token requests = %d, want 0", got)
	}
}

func TestLoginExchangeFailure(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()
	mock.tokenStatus = http.StatusBadRequest
	mock.tokenBody = `{"error":"invalid_grant","error_description":"Code was already redeemed."}`

	flow, store := newTestFlow(t, mock, 18783)
	flow.openBrowser = approveAuthorization(t, "server-code")

	_, err := flow.Login(context.Background())
	if err == nil {
		t.Fatal("Login() with failing exchange returned nil error")
	}
	if !strings.Contains(err.Error(), "token exchange failed") {
		t.Errorf("Login() error = %v, want token exchange failure", err)
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Errorf("Login() error = %v, want provider response body surfaced", err)
	}

	rec, err := store.Load()
	if err != nil || rec != nil {
		t.Errorf("Load() after failed exchange = %+v, %v; want nil, nil", rec, err)
	}
}

func TestLoginWithoutClientID(t *testing.T) {
	flow := NewFlow(FlowConfig{
		Store:  NewCredentialStore(t.TempDir()),
		Logger: testLogger(),
	})

	_, err := flow.Login(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no OAuth client configured") {
		t.Errorf("Login() error = %v, want missing client error", err)
	}
}

func TestLoginCanceledContext(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, _ := newTestFlow(t, mock, 18784)
	// The user never completes the consent screen.
	flow.openBrowser = func(string) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := flow.Login(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Login() error = %v, want context.Canceled", err)
	}
}

func TestAccessTokenNotLoggedIn(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, _ := newTestFlow(t, mock, 0)

	_, err := flow.AccessToken(context.Background())
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("AccessToken() error = %v, want ErrLoginRequired", err)
	}
}

func TestAccessTokenFreshRecord(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, store := newTestFlow(t, mock, 0)
	rec := &CredentialRecord{
		AccessToken:  "still-good",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
	}
	if err := store.Save(rec); err != nil {
		t.Fatal(err)
	}

	token, err := flow.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error: %v", err)
	}
	if token != "still-good" {
		t.Errorf("AccessToken() = %q, want %q", token, "still-good")
	}
	if got := mock.TokenRequestCount(); got != 0 {
		t.Errorf("token requests = %d, want 0", got)
	}
}

func TestAccessTokenRefreshesExpiringRecord(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()
	mock.accessToken = "refreshed-access"

	flow, store := newTestFlow(t, mock, 0)
	rec := &CredentialRecord{
		AccessToken:  "expiring-access",
		RefreshToken: "long-lived-refresh",
		ExpiresAt:    time.Now().Add(7 * time.Minute).UnixMilli(),
		TokenType:    "Bearer",
		Scope:        "scope",
		UserEmail:    "user@example.com",
	}
	if err := store.Save(rec); err != nil {
		t.Fatal(err)
	}

	token, err := flow.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error: %v", err)
	}
	if token != "refreshed-access" {
		t.Errorf("AccessToken() = %q, want %q", token, "refreshed-access")
	}

	form := mock.LastTokenForm()
	if form.Get("grant_type") != "refresh_token" {
		t.Errorf("grant_type = %q, want refresh_token", form.Get("grant_type"))
	}
	if form.Get("refresh_token") != "long-lived-refresh" {
		t.Errorf("refresh_token = %q, want long-lived-refresh", form.Get("refresh_token"))
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AccessToken != "refreshed-access" {
		t.Errorf("persisted access token = %q, want refreshed-access", loaded.AccessToken)
	}
	if loaded.RefreshToken != "long-lived-refresh" {
		t.Errorf("persisted refresh token = %q, want the original kept", loaded.RefreshToken)
	}
	if loaded.UserEmail != "user@example.com" {
		t.Errorf("persisted email = %q, want preserved", loaded.UserEmail)
	}
}

func TestRefreshAdoptsRotatedRefreshToken(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()
	mock.accessToken = "refreshed-access"
	mock.rotatedRefreshToken = "rotated-refresh"

	flow, store := newTestFlow(t, mock, 0)
	rec := &CredentialRecord{
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(time.Minute).UnixMilli(),
	}

	refreshed, err := flow.Refresh(context.Background(), rec)
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if refreshed.AccessToken != "refreshed-access" {
		t.Errorf("AccessToken = %q, want refreshed-access", refreshed.AccessToken)
	}
	if refreshed.RefreshToken != "rotated-refresh" {
		t.Errorf("RefreshToken = %q, want rotated-refresh", refreshed.RefreshToken)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil || loaded.RefreshToken != "rotated-refresh" {
		t.Errorf("persisted record = %+v, want rotated refresh token", loaded)
	}
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, _ := newTestFlow(t, mock, 0)

	_, err := flow.Refresh(context.Background(), &CredentialRecord{AccessToken: "a"})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("Refresh() error = %v, want ErrLoginRequired", err)
	}
	if err == nil || !strings.Contains(err.Error(), "no refresh token stored") {
		t.Errorf("Refresh() error = %v, want no-refresh-token message", err)
	}
	if got := mock.TokenRequestCount(); got != 0 {
		t.Errorf("token requests = %d, want 0", got)
	}
}

func TestLogoutRevokesAndDeletes(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, store := newTestFlow(t, mock, 0)
	rec := &CredentialRecord{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}
	if err := store.Save(rec); err != nil {
		t.Fatal(err)
	}

	if err := flow.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil || loaded != nil {
		t.Errorf("Load() after Logout = %+v, %v; want nil, nil", loaded, err)
	}

	revoked := mock.RevokedTokens()
	if len(revoked) != 2 || revoked[0] != "at" || revoked[1] != "rt" {
		t.Errorf("revoked tokens = %v, want [at rt]", revoked)
	}
}

func TestLogoutSurvivesRevocationFailure(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()
	mock.revokeStatus = http.StatusInternalServerError

	flow, store := newTestFlow(t, mock, 0)
	if err := store.Save(&CredentialRecord{AccessToken: "at", ExpiresAt: 1}); err != nil {
		t.Fatal(err)
	}

	if err := flow.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil || loaded != nil {
		t.Errorf("credentials still present after Logout: %+v, %v", loaded, err)
	}
}

func TestLogoutWithoutCredentials(t *testing.T) {
	mock := NewMockGoogleServer(t)
	defer mock.Close()

	flow, _ := newTestFlow(t, mock, 0)

	if err := flow.Logout(context.Background()); err != nil {
		t.Errorf("Logout() with no stored credentials returned %v", err)
	}
	if got := mock.RevokeRequestCount(); got != 0 {
		t.Errorf("revoke requests = %d, want 0", got)
	}
}

func TestWrapRetrieveError(t *testing.T) {
	plain := errors.New("network down")
	err := wrapRetrieveError("token refresh failed", plain)
	if !errors.Is(err, plain) {
		t.Errorf("wrapped error does not unwrap to the original: %v", err)
	}
	if !strings.Contains(err.Error(), "token refresh failed") {
		t.Errorf("wrapped error = %v, want op prefix", err)
	}
}
