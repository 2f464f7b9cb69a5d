package model

import (
	"time"

	"github.com/google/uuid"
)

// QRRecord tracks the issuance → use lifecycle of one scan token.
// Used transitions false→true exactly once; the transition is a conditional
// UPDATE guarded on used = false, so a replayed token can never flip it back.
type QRRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Token          string    `gorm:"uniqueIndex;not null"`
	ScanURL        string    `gorm:"not null"`
	EmailRecipient *string
	Used           bool `gorm:"not null;default:false"`
	UsedAt         *time.Time
	CreatedAt      time.Time
	ExpiresAt      time.Time `gorm:"not null"`
}

// Expired reports whether the record's validity window has passed.
func (q *QRRecord) Expired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
