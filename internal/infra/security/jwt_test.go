package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/infra/config"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	svc, err := NewTokenService(config.JWTSettings{
		Secret:   "test-secret-at-least-32-characters",
		Issuer:   "accounts-test",
		TokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(config.JWTSettings{Secret: "   "}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	account := domain.Account{
		ID:    "acc-1",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	}

	token, err := svc.Issue(account)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.AccountID != account.ID {
		t.Errorf("claims.AccountID = %q, want %q", claims.AccountID, account.ID)
	}
	if claims.Email != account.Email {
		t.Errorf("claims.Email = %q, want %q", claims.Email, account.Email)
	}
	if claims.Role != string(domain.RoleUser) {
		t.Errorf("claims.Role = %q, want %q", claims.Role, domain.RoleUser)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)

	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(domain.Account{ID: "acc-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(domain.Account{ID: "acc-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := strings.Join([]string{parts[0], parts[1], "AAAA" + parts[2][4:]}, ".")

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenSignedWithDifferentSecret(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(config.JWTSettings{
		Secret:   "another-secret-with-enough-length",
		TokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := other.Issue(domain.Account{ID: "acc-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyGarbageInput(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{"", "   ", "abc", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q): expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
