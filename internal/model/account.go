package model

import (
	"time"

	"github.com/google/uuid"
)

// Account stores system users with role-based access.
// Role: "staff" | "admin"
//
// Email is always persisted lower-cased so the unique index doubles as the
// case-insensitive uniqueness guarantee.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Phone        *string
	BackupEmail  *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"`

	// Lockout state — mutated only by login outcome and explicit unlock.
	FailedLoginAttempts int `gorm:"not null;default:0"`
	LockUntil           *time.Time

	// Password recovery state — a single outstanding token per account,
	// stored as a SHA-256 hex digest, never in plaintext.
	ResetTokenHash *string
	ResetExpires   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the account is currently locked out at the given time.
func (a *Account) Locked(now time.Time) bool {
	return a.LockUntil != nil && now.Before(*a.LockUntil)
}
