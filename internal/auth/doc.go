// Package auth implements the OAuth session broker for the Spotify
// authorization-code flow.
//
// # Credential Store
//
// [Store] is a single-slot, process-wide credential cache guarded by a mutex.
// A successful code exchange fully replaces the prior credential; nothing is
// merged. Waiters block on [Store.Wait], which is woken by a notification
// channel closed on [Store.Set] rather than by fixed-interval polling, while
// keeping the same observable timeout contract.
//
// # Broker
//
// [Broker] ties the pieces together:
//
//   - [Broker.AuthURL] builds the upstream authorization URL from static
//     client configuration (pure, no side effects).
//   - [Broker.HandleCallback] exchanges an authorization code for tokens and
//     populates the store. A rejected exchange returns [*UpstreamAuthError]
//     carrying the upstream status and body verbatim, and leaves the store
//     untouched. Exchanges are never retried.
//   - [Broker.AcquireToken] is the entry point for any operation needing a
//     bearer token. A cached credential is returned immediately; otherwise
//     the authorization URL is surfaced (browser open by default) and the
//     caller blocks until the callback populates the store or the timeout
//     elapses, in which case the error wraps [shared.ErrAuthTimeout].
//
// Expiry checking is opt-in: with the default configuration a cached token is
// reused without comparing expires_in against obtained_at, mirroring the
// reference behavior. Concurrent first callers each surface their own
// authorization URL; there is no in-flight-session guard.
package auth
