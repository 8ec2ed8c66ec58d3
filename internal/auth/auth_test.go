package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitline/internal/constants"
)

var testNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	exp := testNow.Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		"email": "sam@example.com",
		"name":  "Sam",
		"exp":   exp.Unix(),
	})

	c, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", c.Email)
	assert.Equal(t, "Sam", c.Name)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(testNow))
	assert.True(t, c.Expired(exp))
}

func TestParseClaimsErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "  ", want: ErrNotLoggedIn},
		{name: "garbage", token: "not-a-jwt", want: ErrInvalidToken},
		{name: "no email", token: signToken(t, jwt.MapClaims{"name": "Sam"}), want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClaims(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	c, err := ParseClaims(signToken(t, jwt.MapClaims{"email": "sam@example.com"}))
	require.NoError(t, err)
	assert.False(t, c.Expired(testNow.AddDate(10, 0, 0)))
}

func TestTokenRoundTrip(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.EnvToken, "")

	token := signToken(t, jwt.MapClaims{"email": "sam@example.com", "exp": testNow.Add(time.Hour).Unix()})

	claims, err := SaveToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", claims.Email)

	loaded, err := LoadToken()
	require.NoError(t, err)
	assert.Equal(t, token, loaded)

	session, err := Current(testNow)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", session.Claims.Email)

	require.NoError(t, DeleteToken())
	_, err = LoadToken()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// Deleting twice is fine.
	assert.NoError(t, DeleteToken())
}

func TestSaveTokenRejectsInvalidToken(t *testing.T) {
	gokeyring.MockInit()

	_, err := SaveToken("nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnvTokenOverridesKeyring(t *testing.T) {
	gokeyring.MockInit()

	stored := signToken(t, jwt.MapClaims{"email": "keyring@example.com"})
	_, err := SaveToken(stored)
	require.NoError(t, err)

	env := signToken(t, jwt.MapClaims{"email": "env@example.com"})
	t.Setenv(constants.EnvToken, env)

	session, err := Current(testNow)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", session.Claims.Email)
}

func TestCurrentRejectsExpiredToken(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.EnvToken, signToken(t, jwt.MapClaims{
		"email": "sam@example.com",
		"exp":   testNow.Add(-time.Minute).Unix(),
	}))

	_, err := Current(testNow)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
