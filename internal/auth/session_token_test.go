package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := MintSessionToken("secret", "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	sid, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if sid != "sid-1" {
		t.Fatalf("session id lost, got %q", sid)
	}
}

func TestSessionToken_WrongSecretRejected(t *testing.T) {
	token, err := MintSessionToken("secret", "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseSessionToken("other-secret", token); err == nil {
		t.Fatalf("forged token accepted")
	}
}

func TestSessionToken_ExpiredRejected(t *testing.T) {
	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "sid-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	token, err := stale.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := ParseSessionToken("secret", token); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestSessionToken_GarbageRejected(t *testing.T) {
	for _, tok := range []string{"", "   ", "not.a.jwt"} {
		if _, err := ParseSessionToken("secret", tok); err == nil {
			t.Fatalf("garbage token %q accepted", tok)
		}
	}
}
