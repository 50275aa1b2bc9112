package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/bookeez/accounts/internal/auth/notify"
	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func isPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

type fakeMessaging struct {
	got *messaging.Message
	err error
}

func (f *fakeMessaging) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.got = m
	if f.err != nil {
		return "", f.err
	}
	return "projects/p/messages/1", nil
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newHTTPSender(t *testing.T, h http.HandlerFunc) *notify.FCMSender {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	s, err := notify.NewFCMSender(context.Background(),
		notify.FCMConfig{ProjectID: "bookeez-test"},
		option.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}),
	)
	require.NoError(t, err)
	return s
}

func TestFCMSender_BuildsMessage(t *testing.T) {
	fake := &fakeMessaging{}
	s := &notify.FCMSender{Client: fake}

	err := s.Send(context.Background(), notify.Message{
		DeviceToken: "device-1",
		Title:       "Welcome to Bookeez!",
		Body:        "Your account has been successfully created.",
	})
	require.NoError(t, err)
	require.Equal(t, "device-1", fake.got.Token)
	require.Equal(t, "Welcome to Bookeez!", fake.got.Notification.Title)
	require.Equal(t, "Your account has been successfully created.", fake.got.Notification.Body)
}

func TestFCMSender_TransportErrorRetried(t *testing.T) {
	s := &notify.FCMSender{Client: &fakeMessaging{err: errors.New("connection reset")}}

	err := s.Send(context.Background(), notify.Message{DeviceToken: "d"})
	require.Error(t, err)
	require.False(t, isPermanent(err))
	require.False(t, errors.Is(err, notify.ErrInvalidDeviceToken))
}

func TestFCMSender_HTTPv1(t *testing.T) {
	var body struct {
		Message struct {
			Token        string `json:"token"`
			Notification struct {
				Title string `json:"title"`
				Body  string `json:"body"`
			} `json:"notification"`
		} `json:"message"`
	}

	s := newHTTPSender(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/projects/bookeez-test/messages:send"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"projects/bookeez-test/messages/1"}`))
	})

	err := s.Send(context.Background(), notify.Message{
		DeviceToken: "device-1",
		Title:       "Welcome back!",
		Body:        "You have successfully logged in.",
	})
	require.NoError(t, err)
	require.Equal(t, "device-1", body.Message.Token)
	require.Equal(t, "Welcome back!", body.Message.Notification.Title)
	require.Equal(t, "You have successfully logged in.", body.Message.Notification.Body)
}

func TestFCMSender_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
		invalid   bool
	}{
		{
			name:      "unregistered token",
			status:    http.StatusNotFound,
			body:      `{"error":{"code":404,"status":"NOT_FOUND","message":"Requested entity was not found.","details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}`,
			permanent: true,
			invalid:   true,
		},
		{
			name:      "malformed token",
			status:    http.StatusBadRequest,
			body:      `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"The registration token is not a valid FCM registration token"}}`,
			permanent: true,
			invalid:   true,
		},
		{
			name:      "bad credentials",
			status:    http.StatusForbidden,
			body:      `{"error":{"code":403,"status":"PERMISSION_DENIED","message":"SenderId mismatch"}}`,
			permanent: true,
		},
		{
			name:   "quota exceeded retried",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota","details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"QUOTA_EXCEEDED"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newHTTPSender(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := s.Send(context.Background(), notify.Message{DeviceToken: "d"})
			require.Error(t, err)
			require.Equal(t, tt.permanent, isPermanent(err))
			require.Equal(t, tt.invalid, errors.Is(err, notify.ErrInvalidDeviceToken))
		})
	}
}

func TestLogSender(t *testing.T) {
	s := &notify.LogSender{}
	require.NoError(t, s.Send(context.Background(), notify.Message{DeviceToken: "d", Title: "t"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Send(ctx, notify.Message{}), context.Canceled)
}
