package http

import (
	"net/http"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Exchange an email and password for an access token (1h) and a refresh token (7d)
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	authsdk.LoginResponse	"message, user, token, refreshToken"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid request or invalid credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse	"internal server error"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Message:      "Logged in successfully",
		User:         toUserView(res.User),
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}
