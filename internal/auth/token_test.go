package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

const testSecret = "campus-helpdesk-test-secret"

func testUser() *domain.User {
	return &domain.User{ID: 1, Email: "a@x.com", Role: domain.RoleStudent}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 30)

	token, expiresAt, err := tm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Errorf("expiry %v not near the 30 minute TTL", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("claims.Subject = %q, want %q", claims.Subject, "a@x.com")
	}
	if claims.Role != domain.RoleStudent {
		t.Errorf("claims.Role = %q, want %q", claims.Role, domain.RoleStudent)
	}
}

func TestParseTokenFailsClosed(t *testing.T) {
	tm := NewTokenManager(testSecret, 30)

	expired := NewTokenManager(testSecret, 30)
	expired.ttl = -time.Minute
	expiredToken, _, err := expired.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	otherSecret, _, err := NewTokenManager("completely-different-secret", 30).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: domain.RoleAdmin})
	noSubjectToken, err := noSubject.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
	})
	unsignedToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: otherSecret},
		{name: "missing subject", token: noSubjectToken},
		{name: "none algorithm", token: unsignedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.ParseToken(tt.token)
			if err != ErrInvalidToken {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
			if claims != nil {
				t.Error("ParseToken() returned claims on failure; no partial trust allowed")
			}
		})
	}
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)
	if tm.ttl != 30*time.Minute {
		t.Errorf("default ttl = %v, want 30m", tm.ttl)
	}
}
