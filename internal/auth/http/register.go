package http

import (
	"net/http"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create an account. The welcome notification is recorded and, when fcmToken is set, pushed to the device.
//	@Description	An already registered email returns 400 with the existing account in userExists.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"username, email, password, fcmToken"
//	@Success		201		{object}	authsdk.RegisterResponse	"message, user, notificationTitle, notificationMessage"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid request or duplicate account"
//	@Failure		500		{object}	authsdk.ErrorResponse		"internal server error"
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DeviceToken: req.FCMToken,
	})
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		Message:             "User created successfully",
		User:                toUserView(res.User),
		NotificationTitle:   res.Notification.Title,
		NotificationMessage: res.Notification.Body,
	})
}
