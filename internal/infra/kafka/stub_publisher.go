package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ryabko/account-service/internal/core/domain"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs accounts.user.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"email":         event.Email,
		"full_name":     event.FullName,
		"role":          event.Role,
		"status":        event.Status,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishAccountLoggedIn logs accounts.user.logged_in events.
func (p *StubPublisher) PublishAccountLoggedIn(_ context.Context, event domain.AccountLoggedInEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"email":      event.Email,
		"logged_at":  event.LoggedAt,
	}
	p.logEvent("user.logged_in", event.AccountID, event.LoggedAt, payload)
	return nil
}

// PublishAccountStatusChanged logs accounts.user.status_changed events.
func (p *StubPublisher) PublishAccountStatusChanged(_ context.Context, event domain.AccountStatusChangedEvent) error {
	payload := map[string]any{
		"account_id":      event.AccountID,
		"previous_status": event.PreviousStatus,
		"new_status":      event.NewStatus,
		"changed_by":      event.ChangedBy,
		"changed_at":      event.ChangedAt,
	}
	p.logEvent("user.status_changed", event.AccountID, event.ChangedAt, payload)
	return nil
}

// PublishPasswordChanged logs accounts.user.password_changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("user.password_changed", event.AccountID, event.ChangedAt, payload)
	return nil
}
