/*
Package authsdk provides a client SDK for the Bookeez account service.

# Overview

The account service registers users, logs them in with an email and password,
and issues two HS256 tokens: a one hour access token and a seven day refresh
token. The SDK wraps every public endpoint and offers a Session that keeps the
access token fresh.

# SDKClient vs Session

  - SDKClient: public operations (register, login, refresh, user lookup, health)
  - Session: holds the tokens from a login and refreshes the access token
    through POST /refresh shortly before it expires

Typical use:

	client := authsdk.NewSDKClient("https://accounts.example.com")

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "ana",
		Email:    "a@x.com",
		Password: "pw1",
		FCMToken: deviceToken,
	})

	session, login, err := client.AuthenticateWithPassword(ctx, "a@x.com", "pw1")
	fmt.Println("logged in as", login.User.Username)

	token, err := session.ValidAccessToken(ctx)

# Error Handling

Every non-2xx response becomes an *APIError. The predefined errors match with
errors.Is on their code:

	_, err := client.Register(ctx, req)
	if errors.Is(err, authsdk.ErrDuplicateAccount) {
		var apiErr *authsdk.APIError
		errors.As(err, &apiErr)
		fmt.Println("existing account:", apiErr.UserExists.ID)
	}

# Thread Safety

Sessions are safe for concurrent use. Multiple goroutines can share a single
Session; a refresh happens at most once per expiry.
*/
package authsdk
