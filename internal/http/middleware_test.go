package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func echoSession() http.Handler {
	return SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sessionID(r.Context())))
	}))
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("issues a cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		echoSession().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, rec.Body.String())
		_, err := uuid.Parse(cookies[0].Value)
		assert.NoError(t, err)
	})

	t.Run("keeps a valid cookie and refreshes its expiry", func(t *testing.T) {
		sid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
		rec := httptest.NewRecorder()
		echoSession().ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sid, cookies[0].Value)
		assert.Equal(t, int(sessionMaxAge.Seconds()), cookies[0].MaxAge)
		assert.Equal(t, sid, rec.Body.String())
	})

	t.Run("replaces a forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../etc/passwd"})
		rec := httptest.NewRecorder()
		echoSession().ServeHTTP(rec, req)

		require.Len(t, rec.Result().Cookies(), 1)
		assert.NotEqual(t, "../../etc/passwd", rec.Body.String())
	})
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/brew", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx, 10*time.Millisecond, 0)
		close(done)
	}()

	require.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.visitors) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:8080":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"192.0.2.1":        "192.0.2.1",
	}
	for remote, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		assert.Equal(t, want, clientIP(req), remote)
	}
}
