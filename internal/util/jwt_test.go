package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, exp, err := GenerateToken("secret", TokenSpec{
		UserID:    "u1",
		Role:      "ADMIN",
		SessionID: "s1",
		Issuer:    "elite-medicale",
		TTL:       time.Hour,
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(exp) <= 59*time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}

	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "ADMIN" || claims.ID != "s1" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken("other-secret", tok); err == nil {
		t.Error("wrong secret should fail")
	}
}

func TestParseToken_Expired(t *testing.T) {
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret", tok); err == nil {
		t.Error("expired token should fail")
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret", tok); err == nil {
		t.Error("alg=none token should fail")
	}
}
