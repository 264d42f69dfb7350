package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"
)

const testState = "expected-state-token"

func TestOpenBrowser(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		errMsg  string
	}{
		{name: "http URL", url: "http://127.0.0.1:8085/callback", wantErr: false},
		{name: "https URL", url: "https://accounts.google.com/o/oauth2/auth", wantErr: false},
		{name: "unparseable URL", url: "://invalid", wantErr: true, errMsg: "invalid URL"},
		{name: "ftp scheme", url: "ftp://example.com", wantErr: true, errMsg: "invalid URL scheme"},
		{name: "javascript scheme", url: "javascript:alert(1)", wantErr: true, errMsg: "invalid URL scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := openBrowser(tt.url)

			if !tt.wantErr {
				// Whether the launcher binary exists is environment
				// dependent; only the unsupported-platform error is
				// deterministic for well-formed URLs.
				if runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "windows" && err == nil {
					t.Error("expected error on unsupported platform, got nil")
				}
				return
			}

			if err == nil {
				t.Fatalf("openBrowser(%q) error = nil, want error", tt.url)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("openBrowser(%q) error = %v, want containing %q", tt.url, err, tt.errMsg)
			}
		})
	}
}

func TestCreateCallbackHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		queryParams    string
		wantStatusCode int
		wantCode       string
		wantErrMsg     string
		wantResult     bool
	}{
		{
			name:           "success",
			method:         http.MethodGet,
			queryParams:    "code=test-code&state=" + testState,
			wantStatusCode: http.StatusOK,
			wantCode:       "test-code",
			wantResult:     true,
		},
		{
			name:           "provider error",
			method:         http.MethodGet,
			queryParams:    "error=access_denied&error_description=User+denied+access",
			wantStatusCode: http.StatusBadRequest,
			wantErrMsg:     "access_denied",
			wantResult:     true,
		},
		{
			name:           "missing code",
			method:         http.MethodGet,
			queryParams:    "state=" + testState,
			wantStatusCode: http.StatusBadRequest,
			wantErrMsg:     "no authorization code received",
			wantResult:     true,
		},
		{
			name:           "state mismatch",
			method:         http.MethodGet,
			queryParams:    "code=test-code&state=tampered",
			wantStatusCode: http.StatusBadRequest,
			wantErrMsg:     "state mismatch (CSRF protection)",
			wantResult:     true,
		},
		{
			name:           "POST rejected",
			method:         http.MethodPost,
			queryParams:    "code=test-code&state=" + testState,
			wantStatusCode: http.StatusMethodNotAllowed,
			wantResult:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resultChan := make(chan callbackResult, 1)
			handler := createCallbackHandler(testLogger(), testState, resultChan)

			req := httptest.NewRequest(tt.method, "http://127.0.0.1:8085/callback?"+tt.queryParams, nil)
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.wantStatusCode {
				t.Errorf("handler returned status %d, want %d", w.Code, tt.wantStatusCode)
			}

			// The result lands on the channel after the flush delay.
			timeout := time.Second
			if !tt.wantResult {
				timeout = 300 * time.Millisecond
			}

			select {
			case result := <-resultChan:
				if !tt.wantResult {
					t.Fatalf("unexpected result %+v for %s request", result, tt.method)
				}
				if tt.wantErrMsg != "" {
					if result.err == nil {
						t.Fatalf("result.err = nil, want containing %q", tt.wantErrMsg)
					}
					if !strings.Contains(result.err.Error(), tt.wantErrMsg) {
						t.Errorf("result.err = %v, want containing %q", result.err, tt.wantErrMsg)
					}
					return
				}
				if result.err != nil {
					t.Fatalf("result.err = %v, want nil", result.err)
				}
				if result.code != tt.wantCode {
					t.Errorf("result.code = %q, want %q", result.code, tt.wantCode)
				}
			case <-time.After(timeout):
				if tt.wantResult {
					t.Error("timed out waiting for callback result")
				}
			}
		})
	}
}

func TestCallbackResponseFlushedBeforeSignal(t *testing.T) {
	resultChan := make(chan callbackResult, 1)
	handler := createCallbackHandler(testLogger(), testState, resultChan)

	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8085/callback?code=c&state="+testState, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	// The response is complete when the handler returns, but the result is
	// held back for the flush delay.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	select {
	case <-resultChan:
		t.Fatal("result delivered before the flush delay elapsed")
	default:
	}

	select {
	case result := <-resultChan:
		if result.code != "c" {
			t.Errorf("result.code = %q, want %q", result.code, "c")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for callback result")
	}
}

func TestCallbackDuplicateDropped(t *testing.T) {
	resultChan := make(chan callbackResult, 1)
	handler := createCallbackHandler(testLogger(), testState, resultChan)

	req1 := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8085/callback?code=first&state="+testState, nil)
	handler(httptest.NewRecorder(), req1)

	// Let the first result land in the single-slot channel before the
	// duplicate arrives.
	time.Sleep(250 * time.Millisecond)

	req2 := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8085/callback?code=second&state="+testState, nil)
	handler(httptest.NewRecorder(), req2)
	time.Sleep(250 * time.Millisecond)

	select {
	case result := <-resultChan:
		if result.code != "first" {
			t.Errorf("result.code = %q, want %q", result.code, "first")
		}
	default:
		t.Fatal("expected a result in the channel")
	}

	select {
	case result := <-resultChan:
		t.Errorf("second callback should have been dropped, got %+v", result)
	default:
	}
}

func TestStartCallbackServer(t *testing.T) {
	tests := []struct {
		name        string
		redirectURL string
		wantErr     bool
		errMsg      string
	}{
		{name: "localhost URL", redirectURL: "http://localhost:18765/callback", wantErr: false},
		{name: "loopback IP URL", redirectURL: "http://127.0.0.1:18766/callback", wantErr: false},
		{name: "unparseable URL", redirectURL: "://invalid", wantErr: true, errMsg: "invalid redirect URI"},
		{name: "missing host", redirectURL: "/callback", wantErr: true, errMsg: "invalid redirect URI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, resultChan, err := startCallbackServer(&callbackServerConfig{
				redirectURL: tt.redirectURL,
				state:       testState,
				logger:      testLogger(),
			})

			if tt.wantErr {
				if err == nil {
					t.Fatalf("startCallbackServer() error = nil, want error")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("startCallbackServer() error = %v, want containing %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("startCallbackServer() unexpected error: %v", err)
			}
			if server == nil {
				t.Fatal("startCallbackServer() returned nil server")
			}
			if resultChan == nil {
				t.Fatal("startCallbackServer() returned nil result channel")
			}

			shutdownCallbackServer(t, server)
		})
	}
}

func TestCallbackServerIntegration(t *testing.T) {
	redirectURL := "http://127.0.0.1:18767/callback"
	server, resultChan, err := startCallbackServer(&callbackServerConfig{
		redirectURL: redirectURL,
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	// The listener accepts connections as soon as startCallbackServer
	// returns; no settling delay is needed.
	resp, err := http.Get(redirectURL + "?code=test-code&state=" + testState)
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	select {
	case result := <-resultChan:
		if result.err != nil {
			t.Errorf("result.err = %v, want nil", result.err)
		}
		if result.code != "test-code" {
			t.Errorf("result.code = %q, want %q", result.code, "test-code")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for callback result")
	}
}

func TestCallbackServerRejectsForgedState(t *testing.T) {
	redirectURL := "http://127.0.0.1:18768/callback"
	server, resultChan, err := startCallbackServer(&callbackServerConfig{
		redirectURL: redirectURL,
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	resp, err := http.Get(redirectURL + "?code=stolen-code&state=forged")
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	select {
	case result := <-resultChan:
		if result.err == nil {
			t.Fatal("result.err = nil, want state mismatch error")
		}
		if !strings.Contains(result.err.Error(), "state mismatch (CSRF protection)") {
			t.Errorf("result.err = %v, want state mismatch", result.err)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for callback result")
	}
}

func TestCallbackServerErrorParam(t *testing.T) {
	redirectURL := "http://127.0.0.1:18769/callback"
	server, resultChan, err := startCallbackServer(&callbackServerConfig{
		redirectURL: redirectURL,
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	resp, err := http.Get(redirectURL + "?error=access_denied&error_description=User+denied+access")
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	select {
	case result := <-resultChan:
		if result.err == nil {
			t.Fatal("result.err = nil, want authorization error")
		}
		if !strings.Contains(result.err.Error(), "access_denied") {
			t.Errorf("result.err = %v, want containing access_denied", result.err)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for callback result")
	}
}

func TestCallbackServerMethodRestriction(t *testing.T) {
	redirectURL := "http://127.0.0.1:18770/callback"
	server, resultChan, err := startCallbackServer(&callbackServerConfig{
		redirectURL: redirectURL,
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	resp, err := http.Post(redirectURL+"?code=test&state="+testState, "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}

	select {
	case result := <-resultChan:
		t.Errorf("non-GET request produced a result: %+v", result)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCallbackServerUnknownPath(t *testing.T) {
	server, _, err := startCallbackServer(&callbackServerConfig{
		redirectURL: "http://127.0.0.1:18771/callback",
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	resp, err := http.Get("http://127.0.0.1:18771/other")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status for unregistered path = %d, want 404", resp.StatusCode)
	}
}

func TestCallbackServerSecurityTimeouts(t *testing.T) {
	server, _, err := startCallbackServer(&callbackServerConfig{
		redirectURL: "http://127.0.0.1:18772/callback",
		state:       testState,
		logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("failed to start callback server: %v", err)
	}
	defer shutdownCallbackServer(t, server)

	if server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", server.ReadTimeout)
	}
	if server.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want 10s", server.WriteTimeout)
	}
	if server.IdleTimeout != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", server.IdleTimeout)
	}
}

func shutdownCallbackServer(t *testing.T, server *http.Server) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("failed to shut down callback server: %v", err)
	}
}
