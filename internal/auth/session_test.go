package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danbovey/blink-camera-system/pkg/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestSession(opts Options) *Session {
	return NewSession(opts, resty.New(), testLogger())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func okLogin() models.LoginResponse {
	return models.LoginResponse{
		Account: models.Account{
			AccountID: 1234,
			ClientID:  5678,
			Region:    "United States",
			Tier:      "u001",
		},
		Auth: models.Auth{Token: "tok123"},
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	cases := []Options{
		{Password: "pw", DeviceID: "dev", BaseURL: server.URL},
		{Username: "me@example.com", DeviceID: "dev", BaseURL: server.URL},
		{Username: "me@example.com", Password: "pw", BaseURL: server.URL},
	}
	for _, opts := range cases {
		s := newTestSession(opts)
		err := s.Login(context.Background())

		var ae *AuthError
		require.ErrorAs(t, err, &ae)
		assert.False(t, s.Ready())
	}
	assert.Equal(t, int32(0), hits.Load(), "no network call may precede credential validation")
}

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v5/account/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "me@example.com", payload["email"])
		assert.Equal(t, "dev-1", payload["unique_id"])
		assert.Equal(t, "dev-1", payload["device_identifier"])
		assert.Len(t, payload["notification_key"], DefaultKeyLength)

		writeJSON(w, okLogin())
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username: "me@example.com",
		Password: "pw",
		DeviceID: "dev-1",
		BaseURL:  server.URL,
	})
	require.NoError(t, s.Login(context.Background()))

	assert.True(t, s.Ready())
	assert.Equal(t, "tok123", s.Token())
	assert.Equal(t, "u001", s.Tier())
	assert.Equal(t, 1234, s.AccountID())
	assert.Equal(t, map[string]string{"token-auth": "tok123"}, s.AuthHeader())
	assert.Equal(t, server.URL+"/api/v3/accounts/1234/homescreen", s.URLs().Home)
}

func TestLoginMissingRegion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.LoginResponse{Auth: models.Auth{Token: "tok123"}})
	}))
	defer server.Close()

	s := newTestSession(Options{Username: "u", Password: "p", DeviceID: "d", BaseURL: server.URL})
	err := s.Login(context.Background())

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.False(t, s.Ready())
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer server.Close()

	s := newTestSession(Options{Username: "u", Password: "p", DeviceID: "d", BaseURL: server.URL})
	err := s.Login(context.Background())

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Error(), "invalid credentials")
}

func TestLoginVerificationRetrySucceeds(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			lr := okLogin()
			lr.Account.AccountVerificationRequired = true
			writeJSON(w, lr)
			return
		}
		writeJSON(w, okLogin())
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username:   "u",
		Password:   "p",
		DeviceID:   "d",
		BaseURL:    server.URL,
		VerifyWait: 10 * time.Millisecond,
	})
	require.NoError(t, s.Login(context.Background()))

	assert.Equal(t, int32(2), hits.Load())
	assert.True(t, s.Ready())
}

func TestLoginVerificationTimeout(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lr := okLogin()
		lr.Account.ClientVerificationRequired = true
		writeJSON(w, lr)
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username:   "u",
		Password:   "p",
		DeviceID:   "d",
		BaseURL:    server.URL,
		VerifyWait: 10 * time.Millisecond,
	})
	err := s.Login(context.Background())

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Error(), "verification timeout")
	assert.Equal(t, int32(2), hits.Load(), "exactly one retry, no third attempt")
	assert.False(t, s.Ready())
}

func TestLoginVerificationWaitCancelable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lr := okLogin()
		lr.Account.AccountVerificationRequired = true
		writeJSON(w, lr)
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username:   "u",
		Password:   "p",
		DeviceID:   "d",
		BaseURL:    server.URL,
		VerifyWait: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- s.Login(ctx) }()

	select {
	case err := <-done:
		var ae *AuthError
		require.ErrorAs(t, err, &ae)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("login did not return after context cancellation")
	}
}

func TestLoginTwoFactor(t *testing.T) {
	var verified atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v4/account/login":
			lr := okLogin()
			lr.Account.ClientVerificationRequired = true
			writeJSON(w, lr)
		case "/api/v4/account/1234/client/5678/pin/verify":
			assert.Equal(t, "tok123", r.Header.Get("token-auth"))
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "654321", payload["pin"])
			verified.Store(true)
			writeJSON(w, models.VerifyResponse{Valid: true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username: "u",
		Password: "p",
		DeviceID: "d",
		Auth2FA:  true,
		BaseURL:  server.URL,
		CodeProvider: func(ctx context.Context, prompt string) (string, error) {
			assert.NotEmpty(t, prompt)
			return "654321", nil
		},
	})
	require.NoError(t, s.Login(context.Background()))

	assert.True(t, verified.Load())
	assert.True(t, s.Ready())
	assert.Equal(t, "tok123", s.Token())
	assert.Equal(t, 1234, s.AccountID())
}

func TestLoginTwoFactorWithoutProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lr := okLogin()
		lr.Account.ClientVerificationRequired = true
		writeJSON(w, lr)
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username: "u",
		Password: "p",
		DeviceID: "d",
		Auth2FA:  true,
		BaseURL:  server.URL,
	})
	err := s.Login(context.Background())

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.False(t, s.Ready())
}

func TestLoginTwoFactorBadPin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v4/account/login" {
			lr := okLogin()
			lr.Account.ClientVerificationRequired = true
			writeJSON(w, lr)
			return
		}
		writeJSON(w, models.VerifyResponse{Valid: false, Message: "pin expired"})
	}))
	defer server.Close()

	s := newTestSession(Options{
		Username: "u",
		Password: "p",
		DeviceID: "d",
		Auth2FA:  true,
		BaseURL:  server.URL,
		CodeProvider: func(ctx context.Context, prompt string) (string, error) {
			return "000000", nil
		},
	})
	err := s.Login(context.Background())

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Error(), "pin expired")
}

func TestSetupWithToken(t *testing.T) {
	s := newTestSession(Options{Token: "savedtok", Tier: "e002"})
	require.NoError(t, s.SetupWithToken())

	assert.True(t, s.Ready())
	assert.Equal(t, map[string]string{"token-auth": "savedtok"}, s.AuthHeader())
	assert.Equal(t, "https://rest-e002.immedia-semi.com", s.URLs().Base)
}

func TestSetupWithTokenMissingTier(t *testing.T) {
	s := newTestSession(Options{Token: "savedtok"})

	var ae *AuthError
	require.ErrorAs(t, s.SetupWithToken(), &ae)
	assert.False(t, s.Ready())
}

func TestAdoptAccountID(t *testing.T) {
	s := newTestSession(Options{Token: "tok", Tier: "u001"})
	require.NoError(t, s.SetupWithToken())
	assert.Contains(t, s.URLs().Home, "/accounts/0/")

	s.AdoptAccountID(4321)
	assert.Contains(t, s.URLs().Home, "/accounts/4321/")

	// Unknown or unchanged ids leave the set alone.
	s.AdoptAccountID(0)
	assert.Equal(t, 4321, s.AccountID())
}
