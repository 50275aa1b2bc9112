package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return s
}

func TestRefreshDeadline(t *testing.T) {
	now := time.Now()

	exp := now.Add(time.Hour).Truncate(time.Second)
	require.Equal(t, exp.Add(-refreshBuffer), refreshDeadline(signTestToken(t, exp), now))

	require.Equal(t, now.Add(fallbackAccessTTL-refreshBuffer), refreshDeadline("not-a-jwt", now))
}

func TestSessionAutoRefresh(t *testing.T) {
	var refreshes atomic.Int32
	fresh := signTestToken(t, time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/refresh":
			var req RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken != "refresh-1" {
				ErrInvalidRefreshToken.WriteError(w)
				return
			}
			refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(RefreshResponse{AccessToken: fresh})
		case r.Method == http.MethodGet && r.URL.Path == "/user/u1":
			if r.Header.Get("Authorization") != "Bearer "+fresh {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(UserResponse{Message: "ok", User: UserView{ID: "u1", Username: "ana"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	expired := signTestToken(t, time.Now().Add(-time.Minute))
	session := client.NewSessionFromTokens("u1", expired, "refresh-1")

	var wg sync.WaitGroup
	names := make([]string, 4)
	errs := make([]error, 4)
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := session.Me(context.Background())
			errs[i] = err
			if err == nil {
				names[i] = u.Username
			}
		}()
	}
	wg.Wait()

	for i := range 4 {
		require.NoError(t, errs[i])
		require.Equal(t, "ana", names[i])
	}

	require.Equal(t, int32(1), refreshes.Load())
	require.Equal(t, fresh, session.AccessToken())
	require.Equal(t, "refresh-1", session.RefreshToken())
	require.True(t, session.ExpiresAt().After(time.Now()))
}

func TestSessionRefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrInvalidRefreshToken.WriteError(w)
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	session := client.NewSessionFromTokens("u1", signTestToken(t, time.Now().Add(-time.Minute)), "stale")

	_, err := session.ValidAccessToken(context.Background())
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	noRefresh := client.NewSessionFromTokens("u1", signTestToken(t, time.Now().Add(-time.Minute)), "")
	_, err = noRefresh.ValidAccessToken(context.Background())
	require.Error(t, err)
}
