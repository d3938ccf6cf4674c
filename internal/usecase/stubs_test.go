package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/infra/config"
	"github.com/ryabko/account-service/internal/infra/security"
	"github.com/ryabko/account-service/internal/repository"
)

const testTokenSecret = "unit-test-secret-with-enough-length"

func newTestTokenService(t *testing.T) *security.TokenService {
	t.Helper()

	svc, err := security.NewTokenService(config.JWTSettings{
		Secret:   testTokenSecret,
		Issuer:   "accounts-test",
		TokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	return svc
}

type mockAccountRepository struct {
	createErr   error
	createCalls int
	created     domain.Account

	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account

	getByIDErr    error
	getByEmailErr error

	updateStatusErr    error
	updateStatusCalls  int
	updateStatusID     string
	updateStatusStatus domain.AccountStatus

	updateLastLoginErr   error
	updateLastLoginCalls int
	updateLastLoginID    string
	updateLastLoginAt    time.Time

	updateProfileErr      error
	updateProfileCalls    int
	updateProfileEmail    string
	updateProfileFullName string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordHash  string
}

func newMockAccountRepository(accounts ...domain.Account) *mockAccountRepository {
	repo := &mockAccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]*domain.Account),
	}
	for i := range accounts {
		account := accounts[i]
		repo.byID[account.ID] = &account
		repo.byEmail[account.Email] = &account
	}
	return repo
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.createCalls++
	m.created = account
	if m.createErr != nil {
		return m.createErr
	}
	stored := account
	m.byID[account.ID] = &stored
	m.byEmail[account.Email] = &stored
	return nil
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	account, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	account, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *mockAccountRepository) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	m.updateStatusCalls++
	m.updateStatusID = id
	m.updateStatusStatus = status
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	if account, ok := m.byID[id]; ok {
		account.Status = status
	}
	return nil
}

func (m *mockAccountRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.updateLastLoginCalls++
	m.updateLastLoginID = id
	m.updateLastLoginAt = at
	if m.updateLastLoginErr != nil {
		return m.updateLastLoginErr
	}
	if account, ok := m.byID[id]; ok {
		account.LastLoginAt = &at
	}
	return nil
}

func (m *mockAccountRepository) UpdateProfile(_ context.Context, id string, email, fullName string) error {
	m.updateProfileCalls++
	m.updateProfileEmail = email
	m.updateProfileFullName = fullName
	if m.updateProfileErr != nil {
		return m.updateProfileErr
	}
	if account, ok := m.byID[id]; ok {
		delete(m.byEmail, account.Email)
		account.Email = email
		account.FullName = fullName
		m.byEmail[email] = account
	}
	return nil
}

func (m *mockAccountRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	m.updatePasswordCalls++
	m.updatePasswordHash = passwordHash
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	if account, ok := m.byID[id]; ok {
		account.PasswordHash = passwordHash
	}
	return nil
}

type stubEventPublisher struct {
	registered    []domain.AccountRegisteredEvent
	loggedIn      []domain.AccountLoggedInEvent
	statusChanged []domain.AccountStatusChangedEvent
	passwords     []domain.PasswordChangedEvent
	err           error
}

func (s *stubEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	s.registered = append(s.registered, event)
	return s.err
}

func (s *stubEventPublisher) PublishAccountLoggedIn(_ context.Context, event domain.AccountLoggedInEvent) error {
	s.loggedIn = append(s.loggedIn, event)
	return s.err
}

func (s *stubEventPublisher) PublishAccountStatusChanged(_ context.Context, event domain.AccountStatusChangedEvent) error {
	s.statusChanged = append(s.statusChanged, event)
	return s.err
}

func (s *stubEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	s.passwords = append(s.passwords, event)
	return s.err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	return hash
}
