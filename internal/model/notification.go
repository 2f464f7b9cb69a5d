package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message shown to an account (welcome, login,
// password events, attendance confirmations). Best-effort: a failed write is
// logged and never aborts the operation that triggered it.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	CreatedAt time.Time
}
