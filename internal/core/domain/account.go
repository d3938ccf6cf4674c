package domain

import (
	"errors"
	"strings"
	"time"
)

// AccountRole enumerates the closed set of roles an account can hold.
type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleUser  AccountRole = "user"
)

// AccountStatus enumerates possible account states.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

var (
	// ErrAlreadyActive indicates a redundant activation was requested.
	ErrAlreadyActive = errors.New("account is already active")
	// ErrAlreadyInactive indicates a redundant deactivation was requested.
	ErrAlreadyInactive = errors.New("account is already inactive")
	// ErrSelfDeactivation indicates an administrator attempted to deactivate their own account.
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
)

// Account mirrors the persisted representation in the accounts table.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         AccountRole
	Status       AccountStatus
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NormalizeEmail lowercases and trims an address so it can serve as the login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Valid reports whether the role is a member of the closed role set.
func (r AccountRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Valid reports whether the status is a member of the closed status set.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Sanitized returns a copy of the account with the credential hash stripped.
// Every representation leaving the core goes through this projection.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}

// Activate validates and applies the inactive -> active transition in memory.
// Persistence is the caller's responsibility.
func (a *Account) Activate() error {
	if a.Status == StatusActive {
		return ErrAlreadyActive
	}
	a.Status = StatusActive
	return nil
}

// Deactivate validates and applies the active -> inactive transition in memory.
// The self-deactivation guard is checked before the redundant-transition check,
// so an admin targeting themselves always gets ErrSelfDeactivation.
func (a *Account) Deactivate(actorID string) error {
	if a.ID == actorID {
		return ErrSelfDeactivation
	}
	if a.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	a.Status = StatusInactive
	return nil
}
