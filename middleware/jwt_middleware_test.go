package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestParseUserIDRoundTrip(t *testing.T) {
	tok := signToken(t, "s3cret", jwt.MapClaims{
		"userID": "u-123",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	userID, err := ParseUserID(tok, "s3cret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != "u-123" {
		t.Fatalf("got %q", userID)
	}
}

func TestParseUserIDRejects(t *testing.T) {
	tok := signToken(t, "s3cret", jwt.MapClaims{
		"userID": "u-123",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	if _, err := ParseUserID(tok, "wrong-secret"); err == nil {
		t.Fatal("wrong secret accepted")
	}

	expired := signToken(t, "s3cret", jwt.MapClaims{
		"userID": "u-123",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := ParseUserID(expired, "s3cret"); err == nil {
		t.Fatal("expired token accepted")
	}

	noClaim := signToken(t, "s3cret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := ParseUserID(noClaim, "s3cret"); err == nil {
		t.Fatal("token without userID accepted")
	}
}
