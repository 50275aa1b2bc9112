package http

import (
	"net/http"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Refresh Endpoint
//	@Description	Redeem a refresh token for a new access token. The refresh token is not rotated.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"refreshToken"
//	@Success		200		{object}	authsdk.RefreshResponse	"accessToken"
//	@Failure		400		{object}	authsdk.ErrorResponse	"malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid or expired refresh token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"internal server error"
//	@Router			/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	accessToken, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, "refresh", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{AccessToken: accessToken})
}
