package domain

import "time"

// AccountRegisteredEvent represents the payload for accounts.user.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	FullName     string
	Role         string
	Status       string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountLoggedInEvent represents the payload for accounts.user.logged_in messages.
type AccountLoggedInEvent struct {
	EventID   string
	AccountID string
	Email     string
	LoggedAt  time.Time
	Metadata  map[string]any
}

// AccountStatusChangedEvent represents the payload for accounts.user.status_changed messages.
type AccountStatusChangedEvent struct {
	EventID        string
	AccountID      string
	PreviousStatus string
	NewStatus      string
	ChangedBy      string
	ChangedAt      time.Time
	Metadata       map[string]any
}

// PasswordChangedEvent represents the payload for accounts.user.password_changed messages.
type PasswordChangedEvent struct {
	EventID   string
	AccountID string
	ChangedAt time.Time
	Metadata  map[string]any
}
