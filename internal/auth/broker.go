package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultTimeout bounds how long AcquireToken waits for the user to
	// complete consent in the browser.
	DefaultTimeout = 120 * time.Second

	defaultRedirectURI = "http://localhost:8000/callback"
	defaultScope       = "user-top-read"
)

// UpstreamAuthError reports a code exchange rejected by the authorization
// server. Carries the upstream status code and body verbatim; terminal for
// that authorization attempt.
type UpstreamAuthError struct {
	Status int
	Body   string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("token exchange rejected: status %d: %s", e.Status, e.Body)
}

// Broker turns a one-shot authorization code into a reusable bearer
// credential cached in a [Store].
type Broker struct {
	config      *oauth2.Config
	store       *Store
	open        func(url string) error
	timeout     time.Duration
	checkExpiry bool
	skew        time.Duration
	logger      *log.Logger
}

// BrokerOpts contains optional configuration for creating a [Broker].
type BrokerOpts struct {
	Endpoint    oauth2.Endpoint        // Upstream endpoints; defaults to Spotify's
	Timeout     time.Duration          // Consent wait bound; defaults to DefaultTimeout
	CheckExpiry bool                   // Re-authorize instead of returning an expired cached token
	ExpirySkew  time.Duration          // Safety margin applied when CheckExpiry is on
	OpenURL     func(url string) error // Defaults to shared.OpenBrowser
	Logger      *log.Logger
}

// NewBroker creates a Broker from static client configuration.
//
// Missing client credentials fail fast rather than proceeding with empty
// values.
func NewBroker(creds shared.SpotifyConfig, opts BrokerOpts) (*Broker, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}
	scope := creds.Scope
	if scope == "" {
		scope = defaultScope
	}
	endpoint := opts.Endpoint
	if endpoint.AuthURL == "" {
		endpoint.AuthURL = spotifyAuthURL
	}
	if endpoint.TokenURL == "" {
		endpoint.TokenURL = spotifyTokenURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{scope},
		Endpoint:     endpoint,
	}

	return &Broker{
		config:      config,
		store:       NewStore(),
		open:        opts.OpenURL,
		timeout:     opts.Timeout,
		checkExpiry: opts.CheckExpiry,
		skew:        opts.ExpirySkew,
		logger:      opts.Logger,
	}, nil
}

// Store exposes the broker's credential store.
func (b *Broker) Store() *Store {
	return b.store
}

// Timeout returns the configured consent wait bound.
func (b *Broker) Timeout() time.Duration {
	return b.timeout
}

// AuthURL builds the upstream authorization URL
// (response_type=code&client_id=...&redirect_uri=...&scope=...).
func (b *Broker) AuthURL() string {
	return b.config.AuthCodeURL("")
}

// HandleCallback exchanges an authorization code for tokens and stores the
// resulting credential, fully replacing any prior one.
//
// A non-200 from the token endpoint returns [*UpstreamAuthError] and leaves
// the store untouched.
func (b *Broker) HandleCallback(ctx context.Context, code string) (Credential, error) {
	if code == "" {
		return Credential{}, fmt.Errorf("%w: missing authorization code", shared.ErrInvalidArgument)
	}

	tok, err := b.config.Exchange(ctx, code)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return Credential{}, &UpstreamAuthError{Status: rErr.Response.StatusCode, Body: string(rErr.Body)}
		}
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	cred := Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
		ObtainedAt:   time.Now(),
	}
	if cred.ExpiresIn == 0 && !tok.Expiry.IsZero() {
		cred.ExpiresIn = int64(time.Until(tok.Expiry) / time.Second)
	}

	b.store.Set(cred)
	b.logger.Info("credential stored", "expires_in", cred.ExpiresIn)

	return cred, nil
}

// AcquireToken returns a bearer access token, starting the authorization
// flow when no credential is cached.
//
// With a cached credential the token is returned immediately. Otherwise the
// authorization URL is surfaced and the call blocks until the callback
// populates the store or the timeout elapses. Concurrent first callers each
// surface their own authorization URL; whichever callback lands first
// satisfies every waiter.
func (b *Broker) AcquireToken(ctx context.Context) (string, error) {
	if cred, ok := b.store.Get(); ok {
		if !b.checkExpiry || !cred.Expired(b.skew) {
			return cred.AccessToken, nil
		}
		b.logger.Warn("cached credential expired, starting new authorization")
		b.store.Clear()
	}

	authURL := b.AuthURL()
	b.logger.Info("no credential cached, surfacing authorization URL")
	if err := b.open(authURL); err != nil {
		b.logger.Warn("failed to open browser, complete authorization manually", "url", authURL, "error", err)
	}

	cred, err := b.store.Wait(ctx, b.timeout)
	if err != nil {
		return "", err
	}

	return cred.AccessToken, nil
}
