package auth

import (
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gtmctl/gtmctl/internal/logging"
)

// callbackResult carries the outcome of the authorization redirect. At most
// one result is delivered per login attempt; duplicate callbacks (a browser
// reloading the page) are dropped.
type callbackResult struct {
	code string
	err  error
}

// callbackServerConfig configures the ephemeral loopback listener.
type callbackServerConfig struct {
	redirectURL string
	state       string
	logger      *logging.Logger
}

// startCallbackServer binds the loopback listener and starts serving the
// callback route. The listener is accepting connections by the time this
// returns, so the browser can be opened immediately afterwards. The returned
// channel delivers at most one result.
func startCallbackServer(config *callbackServerConfig) (*http.Server, chan callbackResult, error) {
	parsed, err := url.Parse(config.redirectURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if parsed.Host == "" {
		return nil, nil, fmt.Errorf("invalid redirect URI: %q has no host", config.redirectURL)
	}

	resultChan := make(chan callbackResult, 1)

	// Isolated ServeMux so nothing registered on http.DefaultServeMux can
	// leak onto the listener. Unregistered paths get a 404.
	mux := http.NewServeMux()
	mux.HandleFunc(parsed.Path, createCallbackHandler(config.logger, config.state, resultChan))

	server := &http.Server{
		Addr:         parsed.Host,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	ln, err := net.Listen("tcp", parsed.Host)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind callback listener on %s: %w", parsed.Host, err)
	}

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			sendCallbackResult(resultChan, callbackResult{err: fmt.Errorf("callback server error: %w", err)})
		}
	}()

	return server, resultChan, nil
}

// createCallbackHandler builds the HTTP handler for the authorization
// redirect. The handler validates the query parameters against the expected
// state token, answers with a human-readable page, and signals the outcome
// on resultChan after a short delay so the response is flushed before the
// listener is torn down.
func createCallbackHandler(logger *logging.Logger, state string, resultChan chan callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Only accept GET requests (standard for OAuth callbacks)
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()

		var result callbackResult
		switch {
		case query.Get("error") != "":
			result.err = fmt.Errorf("authorization error: %s - %s",
				query.Get("error"), query.Get("error_description"))
			writeCallbackPage(w, http.StatusBadRequest, "Authorization failed",
				query.Get("error"))
		case query.Get("code") == "":
			result.err = errors.New("no authorization code received")
			writeCallbackPage(w, http.StatusBadRequest, "Authorization failed",
				"The response did not include an authorization code.")
		case query.Get("state") != state:
			result.err = errors.New("state mismatch (CSRF protection)")
			writeCallbackPage(w, http.StatusBadRequest, "Authorization failed",
				"The state parameter did not match this login attempt.")
		default:
			result.code = query.Get("code")
			writeCallbackPage(w, http.StatusOK, "✅ Authorization Successful!",
				"You can close this window and return to the terminal.")
		}

		go func() {
			time.Sleep(callbackFlushDelay)
			if !sendCallbackResult(resultChan, result) {
				logger.WarningVerbose("Duplicate authorization callback ignored")
			}
		}()
	}
}

// sendCallbackResult performs the single-slot write. It reports false when
// the slot is already occupied.
func sendCallbackResult(resultChan chan callbackResult, result callbackResult) bool {
	select {
	case resultChan <- result:
		return true
	default:
		return false
	}
}

func writeCallbackPage(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<html><body><h1>%s</h1><p>%s</p></body></html>",
		html.EscapeString(title), html.EscapeString(detail))
}
