package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gtmctl/gtmctl/internal/logging"
)

// testLogger returns a logger that swallows all output.
func testLogger() *logging.Logger {
	return logging.NewLoggerWithWriter(false, false, io.Discard)
}

// MockGoogleServer stubs the Google endpoints the auth flows talk to: the
// token endpoint, the userinfo endpoint, and the revocation endpoint.
type MockGoogleServer struct {
	*httptest.Server
	t *testing.T

	// Configuration
	accessToken         string
	refreshToken        string // issued on code exchange
	rotatedRefreshToken string // issued on refresh when non-empty
	expiresIn           int
	scope               string
	tokenStatus         int // non-zero forces an error response
	tokenBody           string
	email               string
	name                string
	userID              string
	revokeStatus        int

	// State tracking
	mu                   sync.Mutex
	tokenRequestCount    int
	userinfoRequestCount int
	revokeRequestCount   int
	lastTokenForm        url.Values
	revokedTokens        []string
}

// NewMockGoogleServer starts a stub with a working token grant, a fixed
// user profile, and a succeeding revocation endpoint. Tests override the
// configuration fields before issuing requests.
func NewMockGoogleServer(t *testing.T) *MockGoogleServer {
	t.Helper()

	mgs := &MockGoogleServer{
		t:            t,
		accessToken:  "mock-access-token",
		refreshToken: "mock-refresh-token",
		expiresIn:    3600,
		scope:        "https://www.googleapis.com/auth/tagmanager.readonly",
		email:        "user@example.com",
		name:         "Test User",
		userID:       "1234567890",
		revokeStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", mgs.handleToken)
	mux.HandleFunc("/oauth2/v2/userinfo", mgs.handleUserinfo)
	mux.HandleFunc("/revoke", mgs.handleRevoke)

	mgs.Server = httptest.NewServer(mux)
	return mgs
}

// Endpoints points a Flow at this stub.
func (mgs *MockGoogleServer) Endpoints() Endpoints {
	return Endpoints{
		AuthURL:     mgs.URL + "/authorize",
		TokenURL:    mgs.URL + "/token",
		UserinfoURL: mgs.URL + "/",
		RevokeURL:   mgs.URL + "/revoke",
	}
}

// handleToken answers code-exchange and refresh grants
func (mgs *MockGoogleServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method_not_allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid_request", http.StatusBadRequest)
		return
	}

	mgs.mu.Lock()
	mgs.tokenRequestCount++
	mgs.lastTokenForm = r.Form
	mgs.mu.Unlock()

	if mgs.tokenStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mgs.tokenStatus)
		fmt.Fprint(w, mgs.tokenBody)
		return
	}

	response := map[string]interface{}{
		"access_token": mgs.accessToken,
		"token_type":   "Bearer",
		"expires_in":   mgs.expiresIn,
		"scope":        mgs.scope,
	}
	switch r.Form.Get("grant_type") {
	case "authorization_code":
		if mgs.refreshToken != "" {
			response["refresh_token"] = mgs.refreshToken
		}
	case "refresh_token":
		if mgs.rotatedRefreshToken != "" {
			response["refresh_token"] = mgs.rotatedRefreshToken
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (mgs *MockGoogleServer) handleUserinfo(w http.ResponseWriter, r *http.Request) {
	mgs.mu.Lock()
	mgs.userinfoRequestCount++
	mgs.mu.Unlock()

	if r.Method != http.MethodGet {
		http.Error(w, "method_not_allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":    mgs.userID,
		"email": mgs.email,
		"name":  mgs.name,
	})
}

func (mgs *MockGoogleServer) handleRevoke(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")

	mgs.mu.Lock()
	mgs.revokeRequestCount++
	mgs.revokedTokens = append(mgs.revokedTokens, token)
	mgs.mu.Unlock()

	w.WriteHeader(mgs.revokeStatus)
}

// TokenRequestCount returns the number of token endpoint calls
func (mgs *MockGoogleServer) TokenRequestCount() int {
	mgs.mu.Lock()
	defer mgs.mu.Unlock()
	return mgs.tokenRequestCount
}

// UserinfoRequestCount returns the number of userinfo endpoint calls
func (mgs *MockGoogleServer) UserinfoRequestCount() int {
	mgs.mu.Lock()
	defer mgs.mu.Unlock()
	return mgs.userinfoRequestCount
}

// RevokeRequestCount returns the number of revocation endpoint calls
func (mgs *MockGoogleServer) RevokeRequestCount() int {
	mgs.mu.Lock()
	defer mgs.mu.Unlock()
	return mgs.revokeRequestCount
}

// LastTokenForm returns the form values of the most recent token request
func (mgs *MockGoogleServer) LastTokenForm() url.Values {
	mgs.mu.Lock()
	defer mgs.mu.Unlock()
	return mgs.lastTokenForm
}

// RevokedTokens returns the tokens passed to the revocation endpoint
func (mgs *MockGoogleServer) RevokedTokens() []string {
	mgs.mu.Lock()
	defer mgs.mu.Unlock()
	return append([]string{}, mgs.revokedTokens...)
}

// newTestFlow wires a Flow at the stub with an isolated credential store.
// The loopback redirect port must be unique per test; pass 0 for tests that
// never start the callback listener.
func newTestFlow(t *testing.T, mgs *MockGoogleServer, port int) (*Flow, *CredentialStore) {
	t.Helper()

	store := NewCredentialStore(t.TempDir())
	flow := NewFlow(FlowConfig{
		Store:        store,
		Logger:       testLogger(),
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Scopes:       []string{"https://www.googleapis.com/auth/tagmanager.readonly"},
		Endpoints:    mgs.Endpoints(),
		RedirectURL:  fmt.Sprintf("http://127.0.0.1:%d/callback", port),
	})
	return flow, store
}
