package authsdk

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	t.Run("typed body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadRequest}
		body := []byte(`{"error":"duplicate_account","message":"user already exists","userExists":{"_id":"01J","username":"ana","email":"a@x.com","role":"user","cart":[],"notifications":[],"createdAt":"2024-01-01T00:00:00Z"}}`)

		err := parseErrorResponse(resp, body)
		require.ErrorIs(t, err, ErrDuplicateAccount)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.NotNil(t, apiErr.UserExists)
		require.Equal(t, "ana", apiErr.UserExists.Username)
	})

	t.Run("untyped body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadGateway}
		err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, ErrorCodeServerError, apiErr.Code)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
	})
}

func TestAPIErrorWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrInvalidCredentials.WriteError(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"invalid_credentials","message":"invalid credentials"}`, rec.Body.String())
}

func TestAPIErrorCopies(t *testing.T) {
	e := ErrInvalidRequest.WithMessage("email is required")
	require.Equal(t, "email is required", e.Message)
	require.Equal(t, "the request is malformed or missing required fields", ErrInvalidRequest.Message)
	require.ErrorIs(t, e, ErrInvalidRequest)

	d := ErrDuplicateAccount.WithExistingUser(UserView{ID: "x"})
	require.Nil(t, ErrDuplicateAccount.UserExists)
	require.Equal(t, "x", d.UserExists.ID)
}
