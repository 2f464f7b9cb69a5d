package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceDateLayout is the canonical YYYY-MM-DD form of the attendance day.
const AttendanceDateLayout = "2006-01-02"

// AttendanceRecord is one clock-in for one account on one calendar day.
// Days are derived from the timestamp in UTC — the fixed reference timezone —
// and the composite unique index enforces at most one record per account/day.
// Records are created exactly once and never mutated afterwards.
type AttendanceRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_account_date"`
	Timestamp time.Time `gorm:"not null"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_account_date"`
	CreatedAt time.Time
}

// AttendanceDate truncates ts to its UTC calendar day.
func AttendanceDate(ts time.Time) string {
	return ts.UTC().Format(AttendanceDateLayout)
}
