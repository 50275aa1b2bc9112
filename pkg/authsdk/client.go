package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Bookeez account service.
// It provides access to the public endpoints and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new account service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and returns a Session holding the issued
// tokens together with the login response.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, *LoginResponse, error) {
	loginResp, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	session := c.NewSessionFromTokens(loginResp.User.ID, loginResp.Token, loginResp.RefreshToken)
	return session, loginResp, nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// This is useful when tokens were persisted by a previous login.
// The session will still perform auto-refresh when the access token expires.
func (c *SDKClient) NewSessionFromTokens(userID, accessToken, refreshToken string) *Session {
	return &Session{
		client:       c,
		userID:       userID,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    refreshDeadline(accessToken, time.Now()),
	}
}
