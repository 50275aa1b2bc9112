package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
	"github.com/bookeez/accounts/pkg/slogx"
)

// toUserView maps a user to its public representation. The password hash
// has no field to land in.
func toUserView(u domain.User) authsdk.UserView {
	v := authsdk.UserView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		FCMToken:      u.DeviceToken,
		Cart:          make([]authsdk.CartItemView, 0, len(u.Cart)),
		Notifications: make([]authsdk.NotificationView, 0, len(u.Notifications)),
		CreatedAt:     u.CreatedAt,
	}
	for _, c := range u.Cart {
		v.Cart = append(v.Cart, authsdk.CartItemView{
			TemplateID: c.TemplateID,
			Quantity:   c.Quantity,
			AddedAt:    c.AddedAt,
		})
	}
	for _, n := range u.Notifications {
		v.Notifications = append(v.Notifications, authsdk.NotificationView{
			Title:     n.Title,
			Body:      n.Body,
			Timestamp: n.Timestamp,
		})
	}
	return v
}

func toUserSummary(u domain.User) authsdk.UserSummary {
	return authsdk.UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// writeServiceError maps a service error to its HTTP response. Internal
// details are logged, never written.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var dup *service.DuplicateAccountError

	switch {
	case errors.As(err, &dup):
		apiErr := authsdk.ErrDuplicateAccount
		if dup.Existing.ID != "" {
			apiErr = apiErr.WithExistingUser(toUserView(dup.Existing))
		}
		apiErr.WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WithMessage(strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(op+" failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("rejected request body", "err", err)
		authsdk.ErrInvalidRequest.WithMessage("request body must be a single JSON object").WriteError(w)
		return false
	}
	return true
}
