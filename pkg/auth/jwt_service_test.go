package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "test")

	token, err := svc.IssueAccessToken(kernel.NewIdentityID(42), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken returned error: %v", err)
	}
	if claims.IdentityID.Int64() != 42 {
		t.Errorf("expected identity id 42, got %d", claims.IdentityID.Int64())
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("expected email ana@example.com, got %q", claims.Email)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Error("expiry must be after issuance")
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "test")

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueAccessToken(kernel.NewIdentityID(1), "a@b.c")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	// Still valid just inside the window.
	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.VerifyAccessToken(token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Rejected once the hour has elapsed.
	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.VerifyAccessToken(token)
	if err == nil {
		t.Fatal("expected expired token to fail verification")
	}
	var e *errx.Error
	if !errx.As(err, &e) || e.Code != CodeExpiredToken.Code {
		t.Fatalf("expected %s, got %v", CodeExpiredToken.Code, err)
	}
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "test")

	token, err := svc.IssueAccessToken(kernel.NewIdentityID(7), "a@b.c")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyAccessToken(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestJWTService_WrongKey(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour, "test")
	verifier := NewJWTService("secret-b", time.Hour, "test")

	token, err := issuer.IssueAccessToken(kernel.NewIdentityID(7), "a@b.c")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); err == nil {
		t.Fatal("expected token signed with another key to fail verification")
	}
}

func TestJWTService_MissingRegisteredClaims(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "test")

	// Tokens signed with the service's own key but minted elsewhere may
	// lack exp and iat entirely. Verification must reject them, not crash.
	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no registered claims", jwt.MapClaims{
			"id": int64(5), "email": "a@b.c",
		}},
		{"exp without iat", jwt.MapClaims{
			"id": int64(5), "email": "a@b.c",
			"exp": time.Now().Add(time.Hour).Unix(),
		}},
		{"iat without exp", jwt.MapClaims{
			"id": int64(5), "email": "a@b.c",
			"iat": time.Now().Unix(),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc.claims).
				SignedString([]byte("test-secret"))
			if err != nil {
				t.Fatalf("signing test token: %v", err)
			}

			claims, err := svc.VerifyAccessToken(signed)
			if err == nil {
				t.Fatalf("expected verification to fail, got claims %+v", claims)
			}
			var e *errx.Error
			if !errx.As(err, &e) || e.Type != errx.TypeAuthorization {
				t.Fatalf("expected authorization error, got %v", err)
			}
		})
	}
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "test")

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(tok); err == nil {
			t.Errorf("expected %q to fail verification", tok)
		}
	}
}
