package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("super-secret", "test-issuer", time.Hour)

	tok, err := m.Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Name != "alice" {
		t.Fatalf("name mismatch: got %q want %q", claims.Name, "alice")
	}
}

func TestParseExpired(t *testing.T) {
	m := NewManager("super-secret", "test-issuer", -time.Minute)

	tok, err := m.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, err = m.Parse(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := NewManager("right-secret", "test-issuer", time.Hour)
	tok, err := m.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	other := NewManager("wrong-secret", "test-issuer", time.Hour)
	_, err = other.Parse(tok)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong secret, got %v", err)
	}
}

func TestParseTamperedToken(t *testing.T) {
	m := NewManager("super-secret", "test-issuer", time.Hour)
	tok, err := m.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	tampered := tok[:len(tok)-2] + "xx"
	_, err = m.Parse(tampered)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for tampered token, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	m := NewManager("super-secret", "test-issuer", time.Hour)
	if _, err := m.Parse("not.a.jwt"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for malformed token, got %v", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	m := NewManager("super-secret", "issuer-a", time.Hour)
	tok, err := m.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	other := NewManager("super-secret", "issuer-b", time.Hour)
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong issuer, got %v", err)
	}
}

func TestParseUnsignedAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Name:   "bob",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "test-issuer",
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign with none: %v", err)
	}

	m := NewManager("super-secret", "test-issuer", time.Hour)
	if _, err := m.Parse(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for alg=none token, got %v", err)
	}
}
