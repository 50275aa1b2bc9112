// Package storetest holds the behaviour every store driver must share. Each
// driver's tests call Run with a constructor for a fresh, migrated store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store with migrations applied. It should register
// its own cleanup.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("ConcurrentSameEmail", func(t *testing.T) { testConcurrentSameEmail(t, newStore(t)) })
	t.Run("PushNotification", func(t *testing.T) { testPushNotification(t, newStore(t)) })
	t.Run("UpdatePasswordHash", func(t *testing.T) { testUpdatePasswordHash(t, newStore(t)) })
	t.Run("ListUsers", func(t *testing.T) { testListUsers(t, newStore(t)) })
	t.Run("PingAndMigrate", func(t *testing.T) { testPingAndMigrate(t, newStore(t)) })
}

// Timestamps are compared at millisecond precision, the coarsest any driver
// stores.
var base = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func newUser(email string, created time.Time) domain.User {
	return domain.User{
		ID:            idx.NewAt(created).String(),
		Username:      "reader",
		Email:         email,
		PasswordHash:  "$2a$10$abcdefghijklmnopqrstuuq3M1a6yJ9m2v9u7cGf2mX0bV3WcQe7e",
		Role:          domain.RoleUser,
		CreatedAt:     created,
		Cart:          []domain.CartItem{},
		Notifications: []domain.Notification{},
	}
}

func testCreateAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser("ana@example.com", base)
	u.Username = "ana"
	u.DeviceToken = "fcm-token-1"
	u.Cart = []domain.CartItem{
		{TemplateID: "tpl-1", Quantity: 2, AddedAt: base.Add(time.Minute)},
		{TemplateID: "tpl-2", Quantity: 0, AddedAt: base.Add(2 * time.Minute)},
	}
	u.Notifications = []domain.Notification{
		{Title: "first", Body: "hello", Timestamp: base.Add(3 * time.Minute)},
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	requireSameUser(t, u, byID)

	// Quantity defaults to one.
	require.Equal(t, 1, byID.Cart[1].Quantity)

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, u.PasswordHash, byEmail.PasswordHash)
}

func testGetMissing(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()

	first := newUser("dup@example.com", base)
	require.NoError(t, s.Users().CreateUser(ctx, first))

	second := newUser("dup@example.com", base.Add(time.Second))
	require.ErrorIs(t, s.Users().CreateUser(ctx, second), store.ErrAlreadyExists)

	// The first record is untouched.
	got, err := s.Users().GetUserByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func testConcurrentSameEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	const n = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
		other   []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Users().CreateUser(ctx, newUser("race@example.com", base))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case isAlreadyExists(err):
				dupes++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	require.Equal(t, 1, created)
	require.Equal(t, n-1, dupes)
}

func testPushNotification(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser("notes@example.com", base)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	for i := 0; i < 3; i++ {
		n := domain.Notification{
			Title:     fmt.Sprintf("title-%d", i),
			Body:      fmt.Sprintf("body-%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.Users().PushNotification(ctx, u.ID, n))
	}

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Notifications, 3)
	for i, n := range got.Notifications {
		require.Equal(t, fmt.Sprintf("title-%d", i), n.Title)
		require.Equal(t, fmt.Sprintf("body-%d", i), n.Body)
		require.True(t, base.Add(time.Duration(i)*time.Second).Equal(n.Timestamp))
	}

	err = s.Users().PushNotification(ctx, idx.New().String(), domain.Notification{Title: "x", Timestamp: base})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdatePasswordHash(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser("rehash@example.com", base)
	u.Notifications = []domain.Notification{{Title: "t", Body: "b", Timestamp: base}}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "$2a$10$new"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	want := u
	want.PasswordHash = "$2a$10$new"
	requireSameUser(t, want, got)

	err = s.Users().UpdatePasswordHash(ctx, idx.New().String(), "$2a$10$new")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testListUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	users, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	emails := []string{"c@example.com", "a@example.com", "b@example.com"}
	for i, e := range emails {
		u := newUser(e, base.Add(time.Duration(i)*time.Minute))
		u.DeviceToken = "device"
		u.Notifications = []domain.Notification{{Title: "t", Body: "b", Timestamp: base}}
		require.NoError(t, s.Users().CreateUser(ctx, u))
	}

	users, err = s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		require.Equal(t, emails[i], u.Email, "ordered by creation")
		require.Equal(t, "reader", u.Username)
		require.Equal(t, domain.RoleUser, u.Role)
		require.NotEmpty(t, u.ID)

		require.Empty(t, u.PasswordHash)
		require.Empty(t, u.DeviceToken)
		require.Empty(t, u.Notifications)
		require.Empty(t, u.Cart)
	}
}

func testPingAndMigrate(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.ApplyMigrations(ctx), "migrations must be idempotent")
}

func requireSameUser(t *testing.T, want, got domain.User) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Username, got.Username)
	require.Equal(t, want.Email, got.Email)
	require.Equal(t, want.PasswordHash, got.PasswordHash)
	require.Equal(t, want.Role, got.Role)
	require.Equal(t, want.DeviceToken, got.DeviceToken)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", want.CreatedAt, got.CreatedAt)

	require.Len(t, got.Cart, len(want.Cart))
	for i := range want.Cart {
		require.Equal(t, want.Cart[i].TemplateID, got.Cart[i].TemplateID)
		require.True(t, want.Cart[i].AddedAt.Equal(got.Cart[i].AddedAt))
	}
	require.Len(t, got.Notifications, len(want.Notifications))
	for i := range want.Notifications {
		require.Equal(t, want.Notifications[i].Title, got.Notifications[i].Title)
		require.Equal(t, want.Notifications[i].Body, got.Notifications[i].Body)
		require.True(t, want.Notifications[i].Timestamp.Equal(got.Notifications[i].Timestamp))
	}
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, store.ErrAlreadyExists)
}
