package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/infra/security"
)

func TestGetStripsCredentialHash(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=2$salt$hash",
		Status:       domain.StatusActive,
	})
	svc := NewAccountService(repo, nil, nil, nil)

	account, err := svc.Get(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if account.PasswordHash != "" {
		t.Fatal("safe view leaked credential hash")
	}
}

func TestGetUnknownAccount(t *testing.T) {
	svc := NewAccountService(newMockAccountRepository(), nil, nil, nil)

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateProfileMergesOmittedFields(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:       "acc-1",
		Email:    "user@example.com",
		FullName: "Ada Lovelace",
		Status:   domain.StatusActive,
	})
	svc := NewAccountService(repo, nil, nil, nil)

	account, err := svc.UpdateProfile(context.Background(), "acc-1", UpdateProfileInput{FullName: "Ada King"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	if account.Email != "user@example.com" {
		t.Errorf("email = %q, want stored value retained", account.Email)
	}
	if account.FullName != "Ada King" {
		t.Errorf("full name = %q, want Ada King", account.FullName)
	}
	if repo.updateProfileCalls != 1 {
		t.Fatalf("expected one profile write, got %d", repo.updateProfileCalls)
	}
}

func TestUpdateProfileRequiresAtLeastOneField(t *testing.T) {
	svc := NewAccountService(newMockAccountRepository(), nil, nil, nil)

	_, err := svc.UpdateProfile(context.Background(), "acc-1", UpdateProfileInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	repo := newMockAccountRepository(
		domain.Account{ID: "acc-1", Email: "user@example.com", FullName: "Ada", Status: domain.StatusActive},
		domain.Account{ID: "acc-2", Email: "taken@example.com", FullName: "Grace", Status: domain.StatusActive},
	)
	svc := NewAccountService(repo, nil, nil, nil)

	_, err := svc.UpdateProfile(context.Background(), "acc-1", UpdateProfileInput{Email: "Taken@Example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.updateProfileCalls != 0 {
		t.Fatal("duplicate email must not reach the store write")
	}
}

func TestUpdateProfileKeepingOwnEmail(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:       "acc-1",
		Email:    "user@example.com",
		FullName: "Ada",
		Status:   domain.StatusActive,
	})
	svc := NewAccountService(repo, nil, nil, nil)

	// Re-submitting the current address is not a conflict with oneself.
	account, err := svc.UpdateProfile(context.Background(), "acc-1", UpdateProfileInput{
		Email:    "user@example.com",
		FullName: "Ada King",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if account.Email != "user@example.com" {
		t.Fatalf("email = %q, want unchanged", account.Email)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusActive,
	})
	events := &stubEventPublisher{}
	svc := NewAccountService(repo, nil, events, nil)

	if err := svc.ChangePassword(context.Background(), "acc-1", "Secret123", "Fresh456pass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if repo.updatePasswordCalls != 1 {
		t.Fatalf("expected one password write, got %d", repo.updatePasswordCalls)
	}
	ok, err := security.VerifyPassword("Fresh456pass", repo.updatePasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify new password: ok=%v err=%v", ok, err)
	}
	if len(events.passwords) != 1 {
		t.Fatalf("expected one password event, got %d", len(events.passwords))
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:           "acc-1",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusActive,
	})
	svc := NewAccountService(repo, nil, nil, nil)

	err := svc.ChangePassword(context.Background(), "acc-1", "Secret999", "Fresh456pass")
	if !errors.Is(err, ErrCurrentPasswordInvalid) {
		t.Fatalf("expected ErrCurrentPasswordInvalid, got %v", err)
	}
	if repo.updatePasswordCalls != 0 {
		t.Fatal("failed verification must not write a new hash")
	}
}

func TestChangePasswordRejectsReuseAndWeakness(t *testing.T) {
	repo := newMockAccountRepository(domain.Account{
		ID:           "acc-1",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusActive,
	})
	svc := NewAccountService(repo, nil, nil, nil)

	for _, newPassword := range []string{"Secret123", "weak"} {
		err := svc.ChangePassword(context.Background(), "acc-1", "Secret123", newPassword)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("new password %q: expected ValidationError, got %v", newPassword, err)
		}
		if _, ok := verr.Fields["new_password"]; !ok {
			t.Fatalf("expected violation on new_password, got %v", verr.Fields)
		}
	}
}
