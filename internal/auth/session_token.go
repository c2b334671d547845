package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"transitbook/internal/domain"
)

// Wizard sessions are anonymous: the bearer token only proves the caller
// created the session it names, so two browsers cannot poke the same draft.

// MintSessionToken signs a session id into a short-lived HS256 bearer token.
func MintSessionToken(secret, sessionID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a bearer token and returns the session id.
func ParseSessionToken(secret, tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", domain.ValidationError{Field: "token", Msg: "missing session token"}
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ValidationError{Field: "token", Msg: "unexpected signing method"}
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", domain.ValidationError{Field: "token", Msg: "invalid or expired session token", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ValidationError{Field: "token", Msg: "invalid token claims"}
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ValidationError{Field: "token", Msg: "token has no session id"}
	}
	return sid, nil
}
