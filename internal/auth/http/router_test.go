package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/internal/auth/store/drivers/sqlite"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type stubQueue struct{ pending int }

func (q stubQueue) Pending() int { return q.pending }

type testServer struct {
	srv    *httptest.Server
	client *authsdk.SDKClient
	store  store.Store
	tokens *service.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil, 0)
}

// newTestServerWith serves an in-memory sqlite store, optionally wrapped by
// wrap before the services see it.
func newTestServerWith(t *testing.T, wrap func(store.Store) store.Store, storeTimeout time.Duration) *testServer {
	t.Helper()

	var st store.Store
	sq, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	require.NoError(t, sq.ApplyMigrations(context.Background()))
	st = sq
	if wrap != nil {
		st = wrap(st)
	}

	tokens, err := service.NewTokenIssuer(service.TokenPolicy{
		AccessSecret:  []byte("http-test-access-secret-0123456789"),
		RefreshSecret: []byte("http-test-refresh-secret-0123456789"),
		Issuer:        "bookeez-test",
	})
	require.NoError(t, err)

	r := NewRouter("test", st, slogx.Discard())
	r.AuthService = &service.AuthService{Store: st, Tokens: tokens, BcryptCost: 4}
	r.UserService = &service.UserService{Store: st}
	r.Queue = stubQueue{pending: 2}
	r.StoreTimeout = storeTimeout
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:    srv,
		client: authsdk.NewSDKClient(srv.URL),
		store:  st,
		tokens: tokens,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	return apiErr.StatusCode
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, authsdk.RegisterRequest{
		Username: "ana",
		Email:    "a@x.com",
		Password: "pw1",
		FCMToken: "T",
	})
	require.NoError(t, err)
	require.Equal(t, "User created successfully", reg.Message)
	require.Equal(t, "ana", reg.User.Username)
	require.Equal(t, "a@x.com", reg.User.Email)
	require.Equal(t, "user", reg.User.Role)
	require.Equal(t, "T", reg.User.FCMToken)
	require.NotEmpty(t, reg.User.ID)
	require.Empty(t, reg.User.Cart)
	require.Len(t, reg.User.Notifications, 1)
	require.Equal(t, "Welcome to Bookeez!", reg.NotificationTitle)
	require.Equal(t, "Your account has been successfully created.", reg.NotificationMessage)

	session, login, err := ts.client.AuthenticateWithPassword(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "Logged in successfully", login.Message)
	require.Equal(t, reg.User.ID, login.User.ID)
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.RefreshToken)
	require.Len(t, login.User.Notifications, 2)
	require.Equal(t, "Welcome back to Bookeez!", login.User.Notifications[1].Title)

	claims, err := ts.tokens.VerifyAccess(login.Token)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, claims.UserID)

	access, err := ts.client.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	claims, err = ts.tokens.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, claims.UserID)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "ana", me.Username)
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	first, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana2", Email: " A@X.com", Password: "pw2"})
	require.ErrorIs(t, err, authsdk.ErrDuplicateAccount)
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.NotNil(t, apiErr.UserExists)
	require.Equal(t, first.User.ID, apiErr.UserExists.ID)
}

func TestRegisterInvalid(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for name, req := range map[string]authsdk.RegisterRequest{
		"missing username": {Email: "a@x.com", Password: "pw1"},
		"missing email":    {Username: "ana", Password: "pw1"},
		"missing password": {Username: "ana", Email: "a@x.com"},
		"bad email":        {Username: "ana", Email: "not-an-email", Password: "pw1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ts.client.Register(ctx, req)
			require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
			require.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(ts.srv.URL+"/register", "application/json", strings.NewReader(`{"username":`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, wrongPw := ts.client.Login(ctx, authsdk.LoginRequest{Email: "a@x.com", Password: "nope"})
	_, unknown := ts.client.Login(ctx, authsdk.LoginRequest{Email: "b@x.com", Password: "pw1"})

	for _, err := range []error{wrongPw, unknown} {
		require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
		require.Equal(t, http.StatusBadRequest, statusOf(t, err))
	}
	require.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestRefreshRejected(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	login, err := ts.client.Login(ctx, authsdk.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"access token": login.Token,
		"garbage":      "garbage",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ts.client.Refresh(ctx, token)
			require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken)
			require.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		})
	}
}

func TestUserLookup(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	ana, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	_, err = ts.client.Register(ctx, authsdk.RegisterRequest{Username: "bo", Email: "b@x.com", Password: "pw2", FCMToken: "T2"})
	require.NoError(t, err)

	u, err := ts.client.GetUser(ctx, ana.User.ID)
	require.NoError(t, err)
	require.Equal(t, "ana", u.Username)
	require.Len(t, u.Notifications, 1)

	_, err = ts.client.GetUser(ctx, "01J0000000000000000000000")
	require.ErrorIs(t, err, authsdk.ErrNotFound)
	require.Equal(t, http.StatusNotFound, statusOf(t, err))

	users, err := ts.client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ana", users[0].Username)
	require.Equal(t, "bo", users[1].Username)
}

func TestResponsesNeverContainPasswordHash(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1", FCMToken: "T"})
	require.NoError(t, err)

	raw := func(method, path, body string) string {
		req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(b)
	}

	bodies := []string{
		raw(http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`),
		raw(http.MethodPost, "/register", `{"username":"ana","email":"a@x.com","password":"pw1"}`),
		raw(http.MethodGet, "/user/"+reg.User.ID, ""),
		raw(http.MethodGet, "/user", ""),
	}
	for _, b := range bodies {
		require.NotContains(t, b, "$2a$")
		require.NotContains(t, b, "$2b$")
		require.NotContains(t, strings.ToLower(b), "password")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	live, err := ts.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok (2 pending)", ready.Checks.Notifier)

	require.NoError(t, ts.store.Close())

	_, err = ts.client.GetReadiness(ctx)
	require.Error(t, err)
	require.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestSwaggerDocServed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), `"/register"`)
}

func TestUserLookupMessages(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	for _, path := range []string{"/user/" + reg.User.ID, "/user"} {
		resp, err := http.Get(ts.srv.URL + path)
		require.NoError(t, err)
		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "User fetched successfully", body.Message, path)
	}
}

// brokenUsers fails every email lookup.
type brokenUsers struct {
	store.Users
}

func (brokenUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, errors.New("connection reset")
}

type brokenStore struct {
	store.Store
}

func (s brokenStore) Users() store.Users { return brokenUsers{Users: s.Store.Users()} }

func TestStoreFailureIsServerError(t *testing.T) {
	ts := newTestServerWith(t, func(st store.Store) store.Store { return brokenStore{Store: st} }, 0)
	ctx := context.Background()

	_, err := ts.client.Register(ctx, authsdk.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "pw1"})
	require.ErrorIs(t, err, authsdk.ErrServerError)
	require.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	require.NotContains(t, err.Error(), "connection reset")

	_, err = ts.client.Login(ctx, authsdk.LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.ErrorIs(t, err, authsdk.ErrServerError)
	require.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}

// hangingStore never answers a ping before the caller gives up.
type hangingStore struct {
	store.Store
}

func (hangingStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReadyzPingTimeout(t *testing.T) {
	ts := newTestServerWith(t, func(st store.Store) store.Store { return hangingStore{Store: st} }, 50*time.Millisecond)

	start := time.Now()
	ready, err := ts.client.GetReadiness(context.Background())
	require.Error(t, err)
	require.Nil(t, ready)
	require.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestRouterChainBuiltByApplyRoutes(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	r := NewRouter("test", st, slogx.Discard())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	r.ApplyRoutes()
	require.NotNil(t, r.handler)

	// Routes added after ApplyRoutes still run inside the middleware chain.
	r.Mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	for range 2 {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "server_error")
	}
}
