package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims GameClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSocketioJWTDecoder(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signToken(t, "test-secret", GameClaims{
		UserID:   42,
		Nickname: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	userID, nickname, err := Socketio_JWT_decoder(map[string]interface{}{
		"authorization": "Bearer " + signed,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, "alice", nickname)
}

func TestSocketioJWTDecoderDefaultsNickname(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signToken(t, "test-secret", GameClaims{UserID: 7})

	userID, nickname, err := Socketio_JWT_decoder(map[string]interface{}{
		"authorization": "Bearer " + signed,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.Equal(t, "player_7", nickname)
}

func TestSocketioJWTDecoderRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// No token at all
	_, _, err := Socketio_JWT_decoder(map[string]interface{}{})
	assert.Error(t, err)

	// Wrong secret
	signed := signToken(t, "other-secret", GameClaims{UserID: 42})
	_, _, err = Socketio_JWT_decoder(map[string]interface{}{
		"authorization": "Bearer " + signed,
	})
	assert.Error(t, err)

	// Missing user_id claim
	signed = signToken(t, "test-secret", GameClaims{Nickname: "ghost"})
	_, _, err = Socketio_JWT_decoder(map[string]interface{}{
		"authorization": "Bearer " + signed,
	})
	assert.Error(t, err)

	// Garbage
	_, _, err = Socketio_JWT_decoder(map[string]interface{}{
		"authorization": "Bearer not.a.token",
	})
	assert.Error(t, err)
}
