package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ryabko/account-service/internal/core/domain"
)

func TestSignupCreatesActiveUserAccount(t *testing.T) {
	repo := newMockAccountRepository()
	events := &stubEventPublisher{}
	svc := NewAuthService(repo, newTestTokenService(t), nil, events, nil)

	result, err := svc.Signup(context.Background(), "  New.User@Example.COM ", "Secret123", " Ada Lovelace ")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if result.Token == "" {
		t.Fatal("expected a token to be issued")
	}
	if result.Account.Email != "new.user@example.com" {
		t.Errorf("email = %q, want normalized form", result.Account.Email)
	}
	if result.Account.FullName != "Ada Lovelace" {
		t.Errorf("full name = %q, want trimmed form", result.Account.FullName)
	}
	if result.Account.Role != domain.RoleUser {
		t.Errorf("role = %q, want %q", result.Account.Role, domain.RoleUser)
	}
	if result.Account.Status != domain.StatusActive {
		t.Errorf("status = %q, want %q", result.Account.Status, domain.StatusActive)
	}
	if result.Account.PasswordHash != "" {
		t.Error("result leaked credential hash")
	}
	if repo.created.PasswordHash == "" || repo.created.PasswordHash == "Secret123" {
		t.Error("stored account must carry a hash, not the raw password")
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(events.registered))
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewAuthService(newMockAccountRepository(), newTestTokenService(t), nil, nil, nil)

	cases := []struct {
		name     string
		email    string
		password string
		fullName string
		field    string
	}{
		{"missing email", "", "Secret123", "Ada", "email"},
		{"bad email shape", "not-an-email", "Secret123", "Ada", "email"},
		{"missing password", "a@x.com", "", "Ada", "password"},
		{"weak password", "a@x.com", "secret", "Ada", "password"},
		{"missing full name", "a@x.com", "Secret123", "   ", "full_name"},
		{"short full name", "a@x.com", "Secret123", "A", "full_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.email, tc.password, tc.fullName)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected violation on %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	existing := domain.Account{
		ID:     "acc-1",
		Email:  "taken@example.com",
		Status: domain.StatusActive,
	}
	repo := newMockAccountRepository(existing)
	svc := NewAuthService(repo, newTestTokenService(t), nil, nil, nil)

	_, err := svc.Signup(context.Background(), "Taken@Example.com", "Secret123", "Ada Lovelace")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no create attempt, got %d", repo.createCalls)
	}
}

func TestLoginSuccessUpdatesLastLogin(t *testing.T) {
	account := domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	repo := newMockAccountRepository(account)
	events := &stubEventPublisher{}
	svc := NewAuthService(repo, newTestTokenService(t), nil, events, nil)

	result, err := svc.Login(context.Background(), "User@Example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.Token == "" {
		t.Fatal("expected a token to be issued")
	}
	if repo.updateLastLoginCalls != 1 {
		t.Fatalf("expected one last-login update, got %d", repo.updateLastLoginCalls)
	}
	if result.Account.LastLoginAt == nil {
		t.Fatal("expected last login timestamp on result")
	}
	if result.Account.PasswordHash != "" {
		t.Fatal("result leaked credential hash")
	}
	if len(events.loggedIn) != 1 {
		t.Fatalf("expected one logged-in event, got %d", len(events.loggedIn))
	}
}

func TestLoginUnknownEmailAndWrongPasswordShareOneError(t *testing.T) {
	account := domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusActive,
	}
	repo := newMockAccountRepository(account)
	svc := NewAuthService(repo, newTestTokenService(t), nil, nil, nil)

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "Secret123")
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}

	_, wrongErr := svc.Login(context.Background(), "user@example.com", "Secret124")
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}

	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
	if repo.updateLastLoginCalls != 0 {
		t.Fatal("failed login must not record last login")
	}
}

func TestLoginInactiveAccountRegardlessOfPassword(t *testing.T) {
	account := domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusInactive,
	}
	repo := newMockAccountRepository(account)
	svc := NewAuthService(repo, newTestTokenService(t), nil, nil, nil)

	// The status check runs before verification, so even a wrong password
	// surfaces the deactivation error.
	for _, password := range []string{"Secret123", "definitely-wrong"} {
		_, err := svc.Login(context.Background(), "user@example.com", password)
		if !errors.Is(err, ErrAccountInactive) {
			t.Fatalf("password %q: expected ErrAccountInactive, got %v", password, err)
		}
	}
}

func TestLoginEmptyInputs(t *testing.T) {
	svc := NewAuthService(newMockAccountRepository(), newTestTokenService(t), nil, nil, nil)

	for _, tc := range []struct{ email, password string }{
		{"", "Secret123"},
		{"user@example.com", ""},
		{"", ""},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestLoginBrokerFailureDoesNotFailFlow(t *testing.T) {
	account := domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: mustHashPassword(t, "Secret123"),
		Status:       domain.StatusActive,
	}
	repo := newMockAccountRepository(account)
	events := &stubEventPublisher{err: errors.New("broker down")}
	svc := NewAuthService(repo, newTestTokenService(t), nil, events, nil)

	if _, err := svc.Login(context.Background(), "user@example.com", "Secret123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
}
