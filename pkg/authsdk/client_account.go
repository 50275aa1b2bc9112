package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Register creates a new account. A taken email yields an *APIError matching
// ErrDuplicateAccount whose UserExists field holds the existing account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/register", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges an email and password for an access and refresh token.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh redeems a refresh token for a new access token. The refresh token
// itself is not rotated.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out RefreshResponse
	if err := c.postJSON(ctx, "/refresh", RefreshRequest{RefreshToken: refreshToken}, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// GetUser fetches a single account by id.
func (c *SDKClient) GetUser(ctx context.Context, id string) (*UserView, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/user/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListUsers fetches the summary of every account.
func (c *SDKClient) ListUsers(ctx context.Context) ([]UserSummary, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/user", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListUsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *SDKClient) postJSON(ctx context.Context, path string, in, out any, expectedStatus int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}

	return decodeJSON(resp, out, expectedStatus)
}
