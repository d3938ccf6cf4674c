package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ryabko/account-service/internal/core/domain"
	"github.com/ryabko/account-service/internal/core/port"
	"github.com/ryabko/account-service/internal/repository"
)

// LifecycleService applies activate/deactivate transitions to accounts.
// Transition validation is pure logic on domain.Account; this service adds the
// lookup, the single status write, and event publication. Repeating a
// transition is an explicit error, never a silent no-op.
type LifecycleService struct {
	accounts port.AccountRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewLifecycleService constructs LifecycleService.
func NewLifecycleService(accounts port.AccountRepository, events port.EventPublisher, log *zap.Logger) *LifecycleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LifecycleService{
		accounts: accounts,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// Activate transitions an account to active status.
func (s *LifecycleService) Activate(ctx context.Context, accountID, actorID string) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	previous := account.Status
	if err := account.Activate(); err != nil {
		return domain.Account{}, err
	}

	if err := s.accounts.UpdateStatus(ctx, account.ID, account.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update account status: %w", err)
	}

	s.publishStatusChanged(ctx, *account, previous, actorID)

	return account.Sanitized(), nil
}

// Deactivate transitions an account to inactive status. The self-deactivation
// guard fires before the redundant-transition check, so an administrator
// targeting their own account is always rejected with ErrSelfDeactivation.
func (s *LifecycleService) Deactivate(ctx context.Context, accountID, actorID string) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	previous := account.Status
	if err := account.Deactivate(actorID); err != nil {
		return domain.Account{}, err
	}

	if err := s.accounts.UpdateStatus(ctx, account.ID, account.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update account status: %w", err)
	}

	s.publishStatusChanged(ctx, *account, previous, actorID)

	return account.Sanitized(), nil
}

func (s *LifecycleService) publishStatusChanged(ctx context.Context, account domain.Account, previous domain.AccountStatus, actorID string) {
	if s.events == nil {
		return
	}
	event := domain.AccountStatusChangedEvent{
		AccountID:      account.ID,
		PreviousStatus: string(previous),
		NewStatus:      string(account.Status),
		ChangedBy:      actorID,
		ChangedAt:      s.now().UTC(),
	}
	if err := s.events.PublishAccountStatusChanged(ctx, event); err != nil {
		s.logger.Warn("publish status changed event failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}
