// Package auth keeps the identity provider's ID token between runs and reads
// the claims the CLI needs from it. Signatures are not verified here; the
// habit service verifies every request.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/keyring"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrTokenExpired = errors.New("session token has expired")
	ErrInvalidToken = errors.New("invalid ID token")
)

// Claims is the subset of ID token claims the CLI uses.
type Claims struct {
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Expired reports whether the token had expired at now. A token without an
// exp claim never expires.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type idTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrNotLoggedIn
	}

	var parsed idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &parsed); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.Email == "" {
		return Claims{}, fmt.Errorf("%w: token has no email claim", ErrInvalidToken)
	}

	c := Claims{Email: parsed.Email, Name: parsed.Name}
	if parsed.ExpiresAt != nil {
		c.ExpiresAt = parsed.ExpiresAt.Time
	}
	return c, nil
}

// SaveToken validates token and stores it in the OS keyring.
func SaveToken(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	claims, err := ParseClaims(token)
	if err != nil {
		return Claims{}, err
	}
	if err := keyring.Set(constants.TokenKeyringUser, token); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// LoadToken returns the stored token. The HABITLINE_TOKEN environment
// variable takes precedence over the keyring.
func LoadToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv(constants.EnvToken)); token != "" {
		return token, nil
	}
	token, err := keyring.Get(constants.TokenKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	return token, nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an
// error.
func DeleteToken() error {
	if err := keyring.Delete(constants.TokenKeyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Session is a loaded token together with its claims.
type Session struct {
	Token  string
	Claims Claims
}

// Current loads the stored token and checks it is still valid at now.
func Current(now time.Time) (Session, error) {
	token, err := LoadToken()
	if err != nil {
		return Session{}, err
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return Session{}, err
	}
	if claims.Expired(now) {
		return Session{}, ErrTokenExpired
	}
	return Session{Token: token, Claims: claims}, nil
}
