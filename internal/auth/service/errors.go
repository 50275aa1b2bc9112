package service

import (
	"errors"

	"github.com/bookeez/accounts/internal/auth/domain"
)

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrDuplicateAccount    = errors.New("duplicate_account")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrNotFound            = errors.New("not_found")
)

// DuplicateAccountError is returned by Register when the email is taken. It
// carries the existing account so the caller can show it; the password hash
// is already cleared.
type DuplicateAccountError struct {
	Existing domain.User
}

func (e *DuplicateAccountError) Error() string { return ErrDuplicateAccount.Error() }

func (e *DuplicateAccountError) Is(target error) bool { return target == ErrDuplicateAccount }
