package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return NewAuthService("operator", string(hash), "test-signing-key", time.Hour)
}

func TestAuthLogin(t *testing.T) {
	svc := newAuthFixture(t)

	token, err := svc.Login(context.Background(), "operator", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != "operator" {
		t.Errorf("sub claim = %v, want operator", claims["sub"])
	}
}

func TestAuthLogin_Rejections(t *testing.T) {
	svc := newAuthFixture(t)

	cases := []struct{ user, pass string }{
		{"", "s3cret"},
		{"operator", ""},
		{"intruder", "s3cret"},
		{"operator", "wrong"},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.user, tc.pass); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): got %v, want ErrInvalidCredentials", tc.user, tc.pass, err)
		}
	}
}
