package domain

import "time"

// TokenPair is what a successful login hands back: a short-lived access
// token and a long-lived refresh token, both signed JWTs carrying the user id.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
