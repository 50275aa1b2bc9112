package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/bookeez/accounts/internal/auth/domain"
	"github.com/bookeez/accounts/pkg/jwtx"
)

var ErrSharedSecret = errors.New("access and refresh secrets must differ")

// TokenPolicy is the signing configuration for session tokens. Access and
// refresh tokens use separate secrets so a leaked refresh secret cannot mint
// access tokens, and the reverse.
type TokenPolicy struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

// TokenIssuer signs and verifies access and refresh tokens.
type TokenIssuer struct {
	access          jwtx.Signer
	accessVerifier  jwtx.Verifier
	refresh         jwtx.Signer
	refreshVerifier jwtx.Verifier

	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(p TokenPolicy) (*TokenIssuer, error) {
	if bytes.Equal(p.AccessSecret, p.RefreshSecret) {
		return nil, ErrSharedSecret
	}
	if p.AccessTTL <= 0 {
		p.AccessTTL = jwtx.DefaultAccessTokenTTL
	}
	if p.RefreshTTL <= 0 {
		p.RefreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	opts := jwtx.VerifyOptions{Issuer: p.Issuer, Leeway: p.Leeway}

	access, err := jwtx.NewSignerHS256(p.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("access secret: %w", err)
	}
	accessVerifier, err := jwtx.NewVerifierHS256(p.AccessSecret, opts)
	if err != nil {
		return nil, fmt.Errorf("access secret: %w", err)
	}
	refresh, err := jwtx.NewSignerHS256(p.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh secret: %w", err)
	}
	refreshVerifier, err := jwtx.NewVerifierHS256(p.RefreshSecret, opts)
	if err != nil {
		return nil, fmt.Errorf("refresh secret: %w", err)
	}

	return &TokenIssuer{
		access:          access,
		accessVerifier:  accessVerifier,
		refresh:         refresh,
		refreshVerifier: refreshVerifier,
		issuer:          p.Issuer,
		accessTTL:       p.AccessTTL,
		refreshTTL:      p.RefreshTTL,
	}, nil
}

// IssuePair mints an access and a refresh token for userID, valid from now.
func (t *TokenIssuer) IssuePair(userID string, now time.Time) (domain.TokenPair, error) {
	accessToken, accessExp, err := t.IssueAccess(userID, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	claims := jwtx.NewClaims(userID, t.issuer, t.refreshTTL, now)
	refreshToken, err := t.refresh.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueAccess mints only an access token.
func (t *TokenIssuer) IssueAccess(userID string, now time.Time) (string, time.Time, error) {
	claims := jwtx.NewClaims(userID, t.issuer, t.accessTTL, now)
	token, err := t.access.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// VerifyAccess checks an access token against the access secret.
func (t *TokenIssuer) VerifyAccess(token string) (jwtx.Claims, error) {
	return t.accessVerifier.Verify(token)
}

// VerifyRefresh checks a refresh token against the refresh secret.
func (t *TokenIssuer) VerifyRefresh(token string) (jwtx.Claims, error) {
	return t.refreshVerifier.Verify(token)
}

// AccessTTL is the lifetime of issued access tokens.
func (t *TokenIssuer) AccessTTL() time.Duration { return t.accessTTL }
