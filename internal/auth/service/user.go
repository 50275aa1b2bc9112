package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/store"
)

type UserService struct {
	Store        store.Store
	StoreTimeout time.Duration
}

// GetUserByID fetches a user by id. The password hash is cleared.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (u domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.GetUserByID")
	defer func() { endSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, ErrNotFound
	}

	ctx, cancel := storeCtx(ctx, s.StoreTimeout)
	defer cancel()

	u, err = s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// ListUsers returns every user's summary fields, oldest first.
func (s *UserService) ListUsers(ctx context.Context) (users []domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.ListUsers")
	defer func() { endSpan(span, err) }()

	ctx, cancel := storeCtx(ctx, s.StoreTimeout)
	defer cancel()

	users, err = s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
