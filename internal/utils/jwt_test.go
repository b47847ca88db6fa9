package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test_secret")

func TestSessionToken_RoundTrip(t *testing.T) {
	token, issued, err := GenerateSessionToken(testSecret, 123, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	claims, err := ParseSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken error: %v", err)
	}
	if claims.UserID != 123 || claims.Username != "alice" || claims.Type != "session" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("expected jti %q, got %q", issued.ID, claims.ID)
	}
}

func TestSessionToken_UniqueIDs(t *testing.T) {
	_, a, err := GenerateSessionToken(testSecret, 1, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	_, b, err := GenerateSessionToken(testSecret, 1, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct token ids")
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, 1, "alice", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, token); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, 1, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	if _, err := ParseSessionToken([]byte("other"), token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseSessionToken_RejectsWrongType(t *testing.T) {
	claims := SessionClaims{
		UserID: 1,
		Type:   "email_verify",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, signed); err == nil {
		t.Fatalf("expected error for wrong token type")
	}
}

func TestGenerateSessionToken_EmptySecret(t *testing.T) {
	if _, _, err := GenerateSessionToken(nil, 1, "alice", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
