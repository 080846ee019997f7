package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// GameClaims is the token payload clients present in the socket handshake
type GameClaims struct {
	UserID   int    `json:"user_id"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// Socketio_JWT_decoder extracts and verifies the JWT from socket.io
// handshake auth data, returning the user id and nickname claims
func Socketio_JWT_decoder(authData map[string]interface{}) (int, string, error) {
	raw, ok := authData["authorization"].(string)
	if !ok {
		return 0, "", errors.New("missing authorization token")
	}
	tokenString := strings.TrimPrefix(raw, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("error parsing token: %v", err)
	}

	claims, ok := token.Claims.(*GameClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}
	if claims.UserID <= 0 {
		return 0, "", errors.New("token missing user_id claim")
	}

	nickname := claims.Nickname
	if nickname == "" {
		nickname = fmt.Sprintf("player_%d", claims.UserID)
	}
	return claims.UserID, nickname, nil
}
