package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIService(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		api := NewAPIService("", nil)
		if api.baseURL != "http://localhost:8000" {
			t.Errorf("expected default base URL, got %s", api.baseURL)
		}
		if api.httpClient == nil {
			t.Error("expected default HTTP client")
		}
	})

	t.Run("Get", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/health" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"status":"ok"}`)
		}))
		defer srv.Close()

		api := NewAPIService(srv.URL, nil)
		resp, err := api.Get(context.Background(), "/health")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if !resp.IsJSON {
			t.Error("expected JSON response to be detected")
		}
		data, ok := resp.JSONData.(map[string]any)
		if !ok || data["status"] != "ok" {
			t.Errorf("unexpected JSON data %v", resp.JSONData)
		}
	})

	t.Run("Post", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %s", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"name":"ada"}` {
				t.Errorf("unexpected body %s", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		api := NewAPIService(srv.URL, nil)
		resp, err := api.Post(context.Background(), "/user/create", []byte(`{"name":"ada"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected 201, got %d", resp.StatusCode)
		}
	})

	t.Run("Put And Delete", func(t *testing.T) {
		var methods []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
		}))
		defer srv.Close()

		api := NewAPIService(srv.URL, nil)
		if _, err := api.Put(context.Background(), "/user/abc", nil); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if _, err := api.Delete(context.Background(), "/user/abc"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if len(methods) != 2 || methods[0] != http.MethodPut || methods[1] != http.MethodDelete {
			t.Errorf("unexpected methods %v", methods)
		}
	})

	t.Run("Non-JSON Body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "raw-token-text")
		}))
		defer srv.Close()

		api := NewAPIService(srv.URL, nil)
		resp, err := api.Get(context.Background(), "/spotify/get_token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.IsJSON {
			t.Error("plain text response should not be marked JSON")
		}
		if string(resp.Body) != "raw-token-text" {
			t.Errorf("unexpected body %s", resp.Body)
		}
	})
}
