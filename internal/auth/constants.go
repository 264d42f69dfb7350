package auth

import "time"

// Google OAuth 2.0 endpoints. Tests point Endpoints at local stubs.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleRevokeURL   = "https://oauth2.googleapis.com/revoke"
	googleUserinfoURL = "https://www.googleapis.com/"
)

// Callback listener coordinates. The redirect URI is registered with the
// OAuth client and must not vary between invocations.
const (
	callbackAddr        = "127.0.0.1:8085"
	callbackPath        = "/callback"
	callbackRedirectURL = "http://" + callbackAddr + callbackPath
)

// Credential lifecycle buffers. The refresh buffer is wider than the expiry
// buffer so refresh happens before a token turns unusable.
const (
	expiryBuffer  = 5 * time.Minute
	refreshBuffer = 10 * time.Minute
)

// stateTokenLength is the entropy, in bytes, of the CSRF state token.
const stateTokenLength = 32

// Callback timing. The flush delay keeps the HTTP response ahead of the
// result signal; the grace period bounds listener shutdown; the
// authorization timeout caps how long login waits for the browser redirect.
const (
	callbackFlushDelay    = 100 * time.Millisecond
	callbackShutdownGrace = 2 * time.Second
	authorizationTimeout  = 5 * time.Minute
)

// Persisted file names inside the config directory.
const (
	credentialFileName = "credentials.json"
	methodFileName     = "auth_method.json"
)

// EnvServiceAccountKey points at a service account key file and takes
// precedence over any saved auth method.
const EnvServiceAccountKey = "GTMCTL_SERVICE_ACCOUNT_KEY"
