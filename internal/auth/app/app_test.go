package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestApplication_EndToEnd(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverBolt} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			cfg := validConfig()
			cfg.Env = "dev"
			cfg.LogLevel = "error"
			cfg.LogFormat = "text"
			cfg.StoreDriver = driver
			cfg.SQLiteFile = filepath.Join(dir, "accounts.db")
			cfg.BoltFile = filepath.Join(dir, "accounts.bolt")
			cfg.BcryptCost = 4
			cfg.ShutdownGracePeriod = 5 * time.Second

			app, err := New(context.Background(), cfg)
			require.NoError(t, err)
			app.Start()

			srv := httptest.NewServer(app.Handler())
			defer srv.Close()
			client := authsdk.NewSDKClient(srv.URL)
			ctx := context.Background()

			reg, err := client.Register(ctx, authsdk.RegisterRequest{
				Username: "ana",
				Email:    "a@x.com",
				Password: "pw1",
				FCMToken: "T",
			})
			require.NoError(t, err)

			session, _, err := client.AuthenticateWithPassword(ctx, "a@x.com", "pw1")
			require.NoError(t, err)
			require.Equal(t, reg.User.ID, session.UserID())

			require.NoError(t, session.Refresh(ctx))

			ready, err := client.GetReadiness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", ready.Status)

			require.NoError(t, app.Shutdown())
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = "postgres"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestNew_FCMSenderWithoutUsableCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GCLOUD_PROJECT", "")

	cfg := validConfig()
	cfg.SQLiteFile = filepath.Join(t.TempDir(), "accounts.db")
	cfg.LogLevel = "error"
	cfg.NotifySender = SenderFCM
	cfg.FCMCredentials = filepath.Join(t.TempDir(), "missing-service-account.json")

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "push sender")
}
