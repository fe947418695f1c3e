package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lmfernandez/tastify/internal/shared"
	"golang.org/x/oauth2"
)

func testCreds() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8000/callback",
		Scope:        "user-top-read",
	}
}

func newTokenServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func tokenJSON(w http.ResponseWriter, token string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, `{"access_token":"`+token+`","token_type":"Bearer","refresh_token":"refresh-`+token+`","expires_in":3600}`)
}

func newTestBroker(t *testing.T, tokenURL string, opts BrokerOpts) *Broker {
	t.Helper()
	opts.Endpoint = oauth2.Endpoint{AuthURL: "https://accounts.spotify.com/authorize", TokenURL: tokenURL}
	if opts.OpenURL == nil {
		opts.OpenURL = func(string) error { return nil }
	}
	broker, err := NewBroker(testCreds(), opts)
	if err != nil {
		t.Fatalf("failed to build broker: %v", err)
	}
	return broker
}

func TestNewBroker(t *testing.T) {
	t.Run("Missing Credentials", func(t *testing.T) {
		_, err := NewBroker(shared.SpotifyConfig{}, BrokerOpts{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		broker, err := NewBroker(shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, BrokerOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if broker.Timeout() != DefaultTimeout {
			t.Errorf("expected default timeout %v, got %v", DefaultTimeout, broker.Timeout())
		}
	})
}

func TestAuthURL(t *testing.T) {
	broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{})

	raw := broker.AuthURL()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("auth URL does not parse: %v", err)
	}

	query := parsed.Query()
	if query.Get("response_type") != "code" {
		t.Error("expected response_type=code")
	}
	if query.Get("client_id") != "client-id" {
		t.Errorf("unexpected client_id %q", query.Get("client_id"))
	}
	if query.Get("redirect_uri") != "http://localhost:8000/callback" {
		t.Errorf("unexpected redirect_uri %q", query.Get("redirect_uri"))
	}
	if query.Get("scope") != "user-top-read" {
		t.Errorf("unexpected scope %q", query.Get("scope"))
	}
}

func TestHandleCallback(t *testing.T) {
	t.Run("Exchanges Code And Stores Credential", func(t *testing.T) {
		srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("bad token request: %v", err)
			}
			if r.FormValue("code") != "auth-code" {
				t.Errorf("expected code 'auth-code', got %q", r.FormValue("code"))
			}
			tokenJSON(w, "tok1")
		})

		broker := newTestBroker(t, srv.URL, BrokerOpts{})
		cred, err := broker.HandleCallback(context.Background(), "auth-code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cred.AccessToken != "tok1" {
			t.Errorf("expected 'tok1', got %s", cred.AccessToken)
		}
		if cred.ExpiresIn != 3600 {
			t.Errorf("expected expires_in 3600, got %d", cred.ExpiresIn)
		}

		stored, ok := broker.Store().Get()
		if !ok || stored.AccessToken != "tok1" {
			t.Error("expected credential in store after callback")
		}
	})

	t.Run("Empty Code", func(t *testing.T) {
		broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{})
		_, err := broker.HandleCallback(context.Background(), "")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Upstream Rejection Leaves Store Untouched", func(t *testing.T) {
		srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_grant"}`)
		})

		broker := newTestBroker(t, srv.URL, BrokerOpts{})
		_, err := broker.HandleCallback(context.Background(), "bad-code")

		var upstream *UpstreamAuthError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamAuthError, got %v", err)
		}
		if upstream.Status != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", upstream.Status)
		}
		if !strings.Contains(upstream.Body, "invalid_grant") {
			t.Errorf("expected upstream body in error, got %q", upstream.Body)
		}
		if _, ok := broker.Store().Get(); ok {
			t.Error("expected store untouched after failed exchange")
		}
	})

	t.Run("Unblocks Pending Waiter", func(t *testing.T) {
		srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			tokenJSON(w, "tok1")
		})

		opened := make(chan string, 1)
		broker := newTestBroker(t, srv.URL, BrokerOpts{
			Timeout: 5 * time.Second,
			OpenURL: func(u string) error {
				opened <- u
				return nil
			},
		})

		done := make(chan string, 1)
		go func() {
			tok, err := broker.AcquireToken(context.Background())
			if err != nil {
				t.Errorf("waiter failed: %v", err)
			}
			done <- tok
		}()

		select {
		case u := <-opened:
			if !strings.Contains(u, "response_type=code") {
				t.Errorf("surfaced URL missing response_type: %s", u)
			}
		case <-time.After(time.Second):
			t.Fatal("authorization URL was never surfaced")
		}

		if _, err := broker.HandleCallback(context.Background(), "auth-code"); err != nil {
			t.Fatalf("callback failed: %v", err)
		}

		select {
		case tok := <-done:
			if tok != "tok1" {
				t.Errorf("expected 'tok1', got %s", tok)
			}
		case <-time.After(time.Second):
			t.Fatal("waiter did not unblock after callback")
		}
	})
}

func TestAcquireToken(t *testing.T) {
	t.Run("Cached Credential Returns Immediately", func(t *testing.T) {
		broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{
			OpenURL: func(string) error {
				t.Error("browser should not open when a credential is cached")
				return nil
			},
		})
		broker.Store().Set(Credential{AccessToken: "tok2", ExpiresIn: 3600, ObtainedAt: time.Now()})

		tok, err := broker.AcquireToken(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok != "tok2" {
			t.Errorf("expected 'tok2', got %s", tok)
		}
	})

	t.Run("Expired Credential Ignored When Checks Off", func(t *testing.T) {
		broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{})
		broker.Store().Set(Credential{AccessToken: "stale", ExpiresIn: 1, ObtainedAt: time.Now().Add(-time.Hour)})

		tok, err := broker.AcquireToken(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok != "stale" {
			t.Errorf("expected cached token regardless of age, got %s", tok)
		}
	})

	t.Run("Expired Credential Restarts Flow When Checks On", func(t *testing.T) {
		opened := false
		broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{
			Timeout:     50 * time.Millisecond,
			CheckExpiry: true,
			OpenURL: func(string) error {
				opened = true
				return nil
			},
		})
		broker.Store().Set(Credential{AccessToken: "stale", ExpiresIn: 1, ObtainedAt: time.Now().Add(-time.Hour)})

		_, err := broker.AcquireToken(context.Background())
		if !errors.Is(err, shared.ErrAuthTimeout) {
			t.Fatalf("expected ErrAuthTimeout, got %v", err)
		}
		if !opened {
			t.Error("expected a new authorization flow")
		}
		if _, ok := broker.Store().Get(); ok {
			t.Error("expected expired credential evicted")
		}
	})

	t.Run("Timeout Without Callback", func(t *testing.T) {
		timeout := 60 * time.Millisecond
		broker := newTestBroker(t, "https://accounts.spotify.com/api/token", BrokerOpts{Timeout: timeout})

		start := time.Now()
		_, err := broker.AcquireToken(context.Background())
		elapsed := time.Since(start)

		if !errors.Is(err, shared.ErrAuthTimeout) {
			t.Fatalf("expected ErrAuthTimeout, got %v", err)
		}
		if elapsed < timeout {
			t.Errorf("returned before timeout: %v", elapsed)
		}
	})
}
