// Package auth implements authentication for the Tag Manager API.
//
// It covers the full credential lifecycle: the interactive OAuth
// authorization-code flow with a local callback listener, on-disk credential
// and auth-method storage, transparent token refresh, revocation on logout,
// service account and Application Default Credentials token minting, and a
// factory that binds resolved tokens to cached Tag Manager clients.
//
// # Key Components
//
//   - CredentialStore: persisted OAuth grants (credentials.json, mode 0600)
//   - MethodStore: which credential source is active (auth_method.json)
//   - Flow: interactive login, transparent refresh, logout with revocation
//   - Providers: service account and ADC token resolution
//   - ClientFactory: token resolution and Tag Manager client caching
package auth
