package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoTrueServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var c credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		switch c.Email {
		case "ana@example.com":
			w.Write([]byte(`{"access_token":"tok-ana","token_type":"bearer","expires_in":3600,
				"user":{"id":"u-1","email":"ana@example.com","email_confirmed_at":"2024-01-02T03:04:05Z"}}`))
		case "pending@example.com":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":400,"error_code":"email_not_confirmed","msg":"Email not confirmed"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
		}
	})
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		switch c.Email {
		case "taken@example.com":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
		case "confirm@example.com":
			w.Write([]byte(`{"id":"u-2","email":"confirm@example.com","confirmation_sent_at":"2024-01-02T03:04:05Z"}`))
		default:
			w.Write([]byte(`{"access_token":"tok-new","expires_in":3600,"user":{"id":"u-3","email":"` + c.Email + `"}}`))
		}
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-ana" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("not allowed"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoTrueProvider_SignIn(t *testing.T) {
	srv := newGoTrueServer(t)
	sut := NewGoTrueProvider(srv.URL+"/", "anon-key", time.Second)

	u, err := sut.SignIn(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "tok-ana", u.AccessToken)
	assert.True(t, u.Confirmed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), u.ExpiresAt, 5*time.Second)
}

func TestGoTrueProvider_SignInErrors(t *testing.T) {
	srv := newGoTrueServer(t)
	sut := NewGoTrueProvider(srv.URL, "anon-key", time.Second)

	_, err := sut.SignIn(context.Background(), "lucas@example.com", "wrong")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.Status)
	assert.Equal(t, "invalid_grant", pe.Code)
	assert.Equal(t, MsgInvalidCredentials, Translate(err))

	_, err = sut.SignIn(context.Background(), "pending@example.com", "secret1")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "email_not_confirmed", pe.Code)
	assert.Equal(t, MsgEmailNotConfirmed, Translate(err))
}

func TestGoTrueProvider_SignUp(t *testing.T) {
	srv := newGoTrueServer(t)
	sut := NewGoTrueProvider(srv.URL, "anon-key", time.Second)
	ctx := context.Background()

	u, err := sut.SignUp(ctx, "new@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, u.HasSession())
	assert.Equal(t, "u-3", u.ID)

	pending, err := sut.SignUp(ctx, "confirm@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, pending.HasSession())
	assert.Equal(t, "u-2", pending.ID)

	_, err = sut.SignUp(ctx, "taken@example.com", "secret1")
	assert.Equal(t, MsgAlreadyRegistered, Translate(err))
}

func TestGoTrueProvider_SignOut(t *testing.T) {
	srv := newGoTrueServer(t)
	sut := NewGoTrueProvider(srv.URL, "anon-key", time.Second)
	ctx := context.Background()

	assert.NoError(t, sut.SignOut(ctx, &User{AccessToken: "tok-ana"}))
	assert.NoError(t, sut.SignOut(ctx, &User{}))

	err := sut.SignOut(ctx, &User{AccessToken: "stale"})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "not allowed", pe.Message)
}

func TestGoTrueProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	sut := NewGoTrueProvider(srv.URL, "anon-key", time.Second)

	_, err := sut.SignIn(context.Background(), "ana@example.com", "secret1")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "grant_type")
}
