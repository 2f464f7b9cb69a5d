package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateProfileRequest struct {
	Name        string  `json:"name"         validate:"omitempty,min=2,max=100"`
	Phone       *string `json:"phone"        validate:"omitempty,max=30"`
	BackupEmail *string `json:"backup_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// QRIssueResponse carries everything a client needs to present the code:
// the raw signed token, the URL it encodes, and the rendered PNG (base64).
type QRIssueResponse struct {
	Token     string    `json:"token"`
	ScanURL   string    `json:"scan_url"`
	QRImage   string    `json:"qr_image"` // base64-encoded PNG
	ExpiresAt time.Time `json:"expires_at"`
}

type ScanResponse struct {
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"` // YYYY-MM-DD, UTC
}

type AttendanceResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

type AttendanceListResponse struct {
	Attendance   []AttendanceResponse `json:"attendance"`
	TotalRecords int                  `json:"total_records"`
}

type QRRecordResponse struct {
	ID        string     `json:"id"`
	ScanURL   string     `json:"scan_url"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
