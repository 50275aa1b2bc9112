package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/internal/auth/store/drivers/sqlite"
	"github.com/bookeez/accounts/internal/auth/store/storetest"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(context.Background()))
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newMemoryStore)
}

func TestSQLiteStore_File(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "accounts.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.ApplyMigrations(context.Background()))
		return s
	})
}

func TestSQLiteStore_PingAfterClose(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.Error(t, s.Ping(context.Background()))
}
