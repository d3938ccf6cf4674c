package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/core/port"
	"github.com/ryabko/account-service/internal/infra/logger"
	"github.com/ryabko/account-service/internal/infra/security"
	"github.com/ryabko/account-service/internal/repository"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// The message is deliberately identical for both so callers cannot probe
	// which addresses are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive indicates the account was deactivated by an administrator.
	ErrAccountInactive = errors.New("account has been deactivated")
	// ErrDuplicateEmail indicates the normalized email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// AuthResult bundles the sanitized account and its bearer token.
type AuthResult struct {
	Account domain.Account
	Token   string
}

// AuthService orchestrates signup and login flows.
type AuthService struct {
	accounts          port.AccountRepository
	tokens            *security.TokenService
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	accounts port.AccountRepository,
	tokens *security.TokenService,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		accounts:          accounts,
		tokens:            tokens,
		passwordValidator: validator,
		events:            events,
		logger:            log,
		now:               time.Now,
	}
}

// Signup registers a new account and issues its first token. New accounts are
// always role=user and status=active.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (AuthResult, error) {
	email = domain.NormalizeEmail(email)

	if err := s.validateSignup(email, password, fullName); err != nil {
		return AuthResult{}, err
	}

	// Advisory pre-check. The store's unique index remains the final arbiter
	// for concurrent signups with the same address.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.publishRegistered(ctx, account)

	return AuthResult{Account: account.Sanitized(), Token: token}, nil
}

// Login authenticates credentials and issues a fresh token. The status check
// runs after lookup and before password verification, so a deactivated account
// gets a distinct error regardless of password correctness.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup account: %w", err)
	}

	if account.Status == domain.StatusInactive {
		return AuthResult{}, ErrAccountInactive
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return AuthResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	loggedAt := s.now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, loggedAt); err != nil {
		return AuthResult{}, fmt.Errorf("update last login: %w", err)
	}
	account.LastLoginAt = &loggedAt

	token, err := s.tokens.Issue(*account)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.publishLoggedIn(ctx, *account, loggedAt)

	return AuthResult{Account: account.Sanitized(), Token: token}, nil
}

func (s *AuthService) validateSignup(email, password, fullName string) error {
	verr := newValidationError()

	if email == "" {
		verr.add("email", "email is required")
	} else if !validEmailShape(email) {
		verr.add("email", "please provide a valid email address")
	}

	if password == "" {
		verr.add("password", "password is required")
	} else if err := s.passwordValidator.Validate(password); err != nil {
		verr.add("password", err.Error())
	}

	if strings.TrimSpace(fullName) == "" {
		verr.add("full_name", "full name is required")
	} else if !validFullName(fullName) {
		verr.add("full_name", "full name must be between 2 and 100 characters")
	}

	return verr.orNil()
}

// Event publishing is fire-and-forget: a broker failure never fails the flow.
func (s *AuthService) publishRegistered(ctx context.Context, account domain.Account) {
	if s.events == nil {
		return
	}
	event := domain.AccountRegisteredEvent{
		AccountID:    account.ID,
		Email:        account.Email,
		FullName:     account.FullName,
		Role:         string(account.Role),
		Status:       string(account.Status),
		RegisteredAt: account.CreatedAt,
	}
	if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
		s.logger.Warn("publish account registered event failed",
			zap.String("account_id", account.ID),
			zap.String("email", logger.MaskEmail(account.Email)),
			zap.Error(err),
		)
	}
}

func (s *AuthService) publishLoggedIn(ctx context.Context, account domain.Account, at time.Time) {
	if s.events == nil {
		return
	}
	event := domain.AccountLoggedInEvent{
		AccountID: account.ID,
		Email:     account.Email,
		LoggedAt:  at,
	}
	if err := s.events.PublishAccountLoggedIn(ctx, event); err != nil {
		s.logger.Warn("publish account logged in event failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}
