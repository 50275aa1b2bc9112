package http

import (
	"net/http"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleGet godoc
//
//	@Summary		Get User
//	@Description	Returns the public view of one account, including cart and notification history
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	authsdk.UserResponse	"message, user"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user not found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"internal server error"
//	@Router			/user/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		Message: "User fetched successfully",
		User:    toUserView(user),
	})
}

// HandleList godoc
//
//	@Summary		List Users
//	@Description	Returns id, username, email, role and createdAt of every account
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	authsdk.ListUsersResponse	"message, users"
//	@Failure		500	{object}	authsdk.ErrorResponse		"internal server error"
//	@Router			/user [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}

	summaries := make([]authsdk.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, toUserSummary(u))
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ListUsersResponse{
		Message: "User fetched successfully",
		Users:   summaries,
	})
}
