package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/core/port"
	"github.com/ryabko/account-service/internal/infra/security"
	"github.com/ryabko/account-service/internal/repository"
)

var (
	// ErrCurrentPasswordInvalid indicates the provided current password is incorrect.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
)

// UpdateProfileInput captures the mutable profile fields. Empty fields keep
// their stored value; at least one must be provided.
type UpdateProfileInput struct {
	Email    string
	FullName string
}

// AccountService handles self-service profile operations.
type AccountService struct {
	accounts          port.AccountRepository
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewAccountService constructs AccountService.
func NewAccountService(
	accounts port.AccountRepository,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		accounts:          accounts,
		passwordValidator: validator,
		events:            events,
		logger:            log,
		now:               time.Now,
	}
}

// Get retrieves an account by identifier, credential hash stripped.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	return account.Sanitized(), nil
}

// UpdateProfile changes email and/or full name. A changed email is
// re-normalized and re-checked for uniqueness.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (domain.Account, error) {
	email := domain.NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	verr := newValidationError()
	if email == "" && fullName == "" {
		verr.add("profile", "at least one of email or full_name is required")
	}
	if email != "" && !validEmailShape(email) {
		verr.add("email", "please provide a valid email address")
	}
	if fullName != "" && !validFullName(fullName) {
		verr.add("full_name", "full name must be between 2 and 100 characters")
	}
	if err := verr.orNil(); err != nil {
		return domain.Account{}, err
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if email == "" {
		email = account.Email
	}
	if fullName == "" {
		fullName = account.FullName
	}

	if email != account.Email {
		if existing, err := s.accounts.GetByEmail(ctx, email); err == nil && existing.ID != account.ID {
			return domain.Account{}, ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, fmt.Errorf("check email availability: %w", err)
		}
	}

	if err := s.accounts.UpdateProfile(ctx, account.ID, email, fullName); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, ErrDuplicateEmail
		}
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update profile: %w", err)
	}

	account.Email = email
	account.FullName = fullName

	return account.Sanitized(), nil
}

// ChangePassword verifies the current password and replaces the stored hash.
// The new password must pass the shape rules and differ from the current one.
func (s *AccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	verr := newValidationError()
	if currentPassword == "" {
		verr.add("current_password", "current password is required")
	}
	if newPassword == "" {
		verr.add("new_password", "new password is required")
	} else if err := s.passwordValidator.WithRules(security.RequireDifferentFrom(currentPassword)).Validate(newPassword); err != nil {
		verr.add("new_password", err.Error())
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !ok {
		return ErrCurrentPasswordInvalid
	}

	hashed, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.publishPasswordChanged(ctx, account.ID)

	return nil
}

func (s *AccountService) publishPasswordChanged(ctx context.Context, accountID string) {
	if s.events == nil {
		return
	}
	event := domain.PasswordChangedEvent{
		AccountID: accountID,
		ChangedAt: s.now().UTC(),
	}
	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.logger.Warn("publish password changed event failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
}
