package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/notify"
	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/pkg/cryptox"
	"github.com/bookeez/accounts/pkg/idx"
	"github.com/bookeez/accounts/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// Notifier queues a push for asynchronous delivery. *notify.Dispatcher
// satisfies it.
type Notifier interface {
	Enqueue(msg notify.Message) error
}

type AuthService struct {
	Store        store.Store
	Tokens       *TokenIssuer
	Notifier     Notifier // optional
	BcryptCost   int
	StoreTimeout time.Duration
	Now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DeviceToken string
}

type RegisterResult struct {
	User         domain.User
	Notification domain.Notification
}

type LoginResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// NormalizeEmail trims and lower-cases an address. Lookups and inserts both
// go through it, so "Ana@X.com " and "ana@x.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegister(in RegisterInput) (RegisterInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
	in.DeviceToken = strings.TrimSpace(in.DeviceToken)

	switch {
	case in.Username == "":
		return in, fmt.Errorf("%w: username is required", ErrInvalidRequest)
	case in.Email == "":
		return in, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	case in.Password == "":
		return in, fmt.Errorf("%w: password is required", ErrInvalidRequest)
	case len(in.Password) > cryptox.MaxPasswordBytes:
		return in, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidRequest, cryptox.MaxPasswordBytes)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return in, fmt.Errorf("%w: email is not a valid address", ErrInvalidRequest)
	}
	return in, nil
}

// Register creates an account and records the welcome notification. The push
// itself is queued and never affects the outcome.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res RegisterResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()
	log := slogx.FromContext(ctx)

	in, err = validateRegister(in)
	if err != nil {
		return RegisterResult{}, err
	}

	if existing, err := s.findByEmail(ctx, in.Email); err == nil {
		return RegisterResult{}, duplicate(existing)
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := cryptox.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowUTC(s.Now)
	user := domain.User{
		ID:            idx.NewAt(now).String(),
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		DeviceToken:   in.DeviceToken,
		Cart:          []domain.CartItem{},
		Notifications: []domain.Notification{},
		CreatedAt:     now,
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	sctx, cancel := storeCtx(ctx, s.StoreTimeout)
	err = s.Store.Users().CreateUser(sctx, user)
	cancel()
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent registration for the same email.
		log.Info("registration raced on email", "user_id", user.ID)
		existing, lookupErr := s.findByEmail(ctx, in.Email)
		if lookupErr != nil {
			return RegisterResult{}, &DuplicateAccountError{}
		}
		return RegisterResult{}, duplicate(existing)
	}
	if err != nil {
		return RegisterResult{}, fmt.Errorf("create user: %w", err)
	}

	n := domain.WelcomeNotification(now)
	s.recordNotification(ctx, &user, n)

	log.Info("user registered", "user_id", user.ID, "push", user.CanReceivePush())

	user.PasswordHash = ""
	return RegisterResult{User: user, Notification: n}, nil
}

// Login checks the credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (res LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same bcrypt time as a real check.
		_ = cryptox.VerifyPassword(password, s.dummy())
		log.Info("login failed", "reason", "unknown_email")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup email: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login failed", "reason", "bad_password", "user_id", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	s.rehashIfNeeded(ctx, user, password)

	now := nowUTC(s.Now)
	pair, err := s.Tokens.IssuePair(user.ID, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue tokens: %w", err)
	}

	if user.CanReceivePush() && user.Username != "" {
		s.recordNotification(ctx, &user, domain.WelcomeBackNotification(user.Username, now))
	}

	log.Info("user logged in", "user_id", user.ID)

	user.PasswordHash = ""
	return LoginResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (accessToken string, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Refresh")
	defer func() { endSpan(span, err) }()

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}
	log := slogx.FromContext(ctx).With("token", cryptox.FingerprintToken(refreshToken))

	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		log.Info("refresh token rejected", "err", err)
		return "", fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	span.SetAttributes(attribute.String("user.id", claims.UserID))

	sctx, cancel := storeCtx(ctx, s.StoreTimeout)
	_, err = s.Store.Users().GetUserByID(sctx, claims.UserID)
	cancel()
	if errors.Is(err, store.ErrNotFound) {
		log.Info("refresh token for unknown user", "user_id", claims.UserID)
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	accessToken, _, err = s.Tokens.IssueAccess(claims.UserID, nowUTC(s.Now))
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	log.Debug("access token refreshed", "user_id", claims.UserID)
	return accessToken, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, cancel := storeCtx(ctx, s.StoreTimeout)
	defer cancel()
	return s.Store.Users().GetUserByEmail(ctx, email)
}

// recordNotification appends n to the user's history and queues the push.
// Neither step can fail the caller: a lost history entry or push is logged.
func (s *AuthService) recordNotification(ctx context.Context, user *domain.User, n domain.Notification) {
	log := slogx.FromContext(ctx)

	sctx, cancel := storeCtx(ctx, s.StoreTimeout)
	err := s.Store.Users().PushNotification(sctx, user.ID, n)
	cancel()
	if err != nil {
		log.Warn("failed to record notification", "user_id", user.ID, "title", n.Title, "err", err)
	} else {
		user.Notifications = append(user.Notifications, n)
	}

	if !user.CanReceivePush() || s.Notifier == nil {
		return
	}
	err = s.Notifier.Enqueue(notify.Message{
		UserID:      user.ID,
		DeviceToken: user.DeviceToken,
		Title:       n.Title,
		Body:        n.Body,
	})
	if err != nil {
		log.Warn("push notification not queued", "user_id", user.ID, "err", err)
	}
}

// rehashIfNeeded moves a hash made at a different bcrypt cost to the
// configured one. The login has already succeeded, so failures are only
// logged.
func (s *AuthService) rehashIfNeeded(ctx context.Context, user domain.User, password string) {
	want := s.cost()
	have, err := cryptox.HashCost(user.PasswordHash)
	if err != nil || have == want {
		return
	}
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password, want)
	if err != nil {
		log.Warn("password rehash failed", "user_id", user.ID, "err", err)
		return
	}

	sctx, cancel := storeCtx(ctx, s.StoreTimeout)
	defer cancel()
	if err := s.Store.Users().UpdatePasswordHash(sctx, user.ID, hash); err != nil {
		log.Warn("password rehash not stored", "user_id", user.ID, "err", err)
		return
	}
	log.Info("password rehashed", "user_id", user.ID, "from_cost", have, "to_cost", want)
}

// cost is BcryptCost with the same fallback HashPassword applies.
func (s *AuthService) cost() int {
	if s.BcryptCost < cryptox.MinCost || s.BcryptCost > cryptox.MaxCost {
		return cryptox.DefaultCost
	}
	return s.BcryptCost
}

// dummy returns a bcrypt hash at the configured cost for timing equalisation.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := cryptox.HashPassword("bookeez-timing-equaliser", s.BcryptCost)
		if err != nil {
			slog.Default().Error("failed to build dummy hash", "err", err)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func duplicate(existing domain.User) *DuplicateAccountError {
	existing.PasswordHash = ""
	return &DuplicateAccountError{Existing: existing}
}
