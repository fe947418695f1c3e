package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected default redirect URI")
		}
		if config.Credentials.Spotify.Scope != "user-top-read" {
			t.Errorf("expected scope 'user-top-read', got %s", config.Credentials.Spotify.Scope)
		}
		if config.Auth.TimeoutSeconds != 120 {
			t.Errorf("expected 120 second auth timeout, got %d", config.Auth.TimeoutSeconds)
		}
		if config.Server.Port != 8000 {
			t.Errorf("expected port 8000, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:9999/callback"
scope = "user-top-read"

[database]
path = "test.db"

[server]
host = "127.0.0.1"
port = 9999
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id 'abc', got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Server.Addr() != "127.0.0.1:9999" {
			t.Errorf("expected addr '127.0.0.1:9999', got %s", config.Server.Addr())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:1234/callback")

		config := DefaultConfig()

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:1234/callback" {
			t.Errorf("expected env redirect uri, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			cfg := SpotifyConfig{}
			if err := cfg.Validate(); !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Complete Credentials", func(t *testing.T) {
			cfg := SpotifyConfig{ClientID: "a", ClientSecret: "b"}
			if err := cfg.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
