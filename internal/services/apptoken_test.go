package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
)

func TestAppTokenProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Credentials", func(t *testing.T) {
		provider := NewAppTokenProvider("", "", nil)
		if _, err := provider.Token(ctx); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Exchange And Cache", func(t *testing.T) {
		exchanges := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exchanges++

			wantBasic := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
			if got := r.Header.Get("Authorization"); got != wantBasic {
				t.Errorf("unexpected auth header %q", got)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if r.Form.Get("grant_type") != "client_credentials" {
				t.Errorf("unexpected grant_type %q", r.Form.Get("grant_type"))
			}

			fmt.Fprintf(w, `{"access_token": "tok%d", "expires_in": 3600}`, exchanges)
		}))
		defer server.Close()

		provider := NewAppTokenProvider("id", "secret", nil)
		provider.SetTokenURL(server.URL)

		first, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if exchanges != 1 {
			t.Errorf("expected a single credential exchange, got %d", exchanges)
		}
		if first != "tok1" || second != "tok1" {
			t.Errorf("expected the cached token both times, got %q and %q", first, second)
		}
	})

	t.Run("Refresh Near Expiry", func(t *testing.T) {
		exchanges := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exchanges++
			fmt.Fprintf(w, `{"access_token": "tok%d", "expires_in": 3600}`, exchanges)
		}))
		defer server.Close()

		provider := NewAppTokenProvider("id", "secret", nil)
		provider.SetTokenURL(server.URL)

		current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		provider.now = func() time.Time { return current }

		if _, err := provider.Token(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Just inside the lifetime minus the buffer: still cached.
		current = current.Add(3600*time.Second - tokenExpiryBuffer - time.Second)
		token, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok1" || exchanges != 1 {
			t.Errorf("expected cached token inside buffer, got %q after %d exchanges", token, exchanges)
		}

		// Past the buffered expiry: a fresh exchange.
		current = current.Add(2 * time.Second)
		token, err = provider.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok2" || exchanges != 2 {
			t.Errorf("expected refreshed token past buffer, got %q after %d exchanges", token, exchanges)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		provider := NewAppTokenProvider("id", "wrong", nil)
		provider.SetTokenURL(server.URL)

		if _, err := provider.Token(ctx); !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", err)
		}
	})
}

func TestSessionCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil Session", func(t *testing.T) {
		creds := NewSessionCredentials(nil, nil)
		if _, err := creds.Token(ctx); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("Valid Access Token", func(t *testing.T) {
		session := newTestSession(t, time.Now().Add(time.Hour))
		creds := NewSessionCredentials(session, nil)

		token, err := creds.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "access" {
			t.Errorf("token = %q, want access", token)
		}
	})

	t.Run("Expired Session", func(t *testing.T) {
		session := newTestSession(t, time.Now().Add(time.Hour))
		session.SetExpiresAt(time.Now().Add(-time.Minute))
		creds := NewSessionCredentials(session, nil)

		if _, err := creds.Token(ctx); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("Expired Token Without Refresh", func(t *testing.T) {
		session := models.NewSession("u1", "access", "", time.Now().Add(-time.Minute))
		creds := NewSessionCredentials(session, nil)

		if _, err := creds.Token(ctx); !errors.Is(err, shared.ErrTokenUnavailable) {
			t.Errorf("expected ErrTokenUnavailable, got %v", err)
		}
	})
}

func newTestSession(t *testing.T, tokenExpiresAt time.Time) *models.Session {
	t.Helper()
	return models.NewSession("u1", "access", "refresh", tokenExpiresAt)
}
