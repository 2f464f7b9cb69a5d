package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFixture struct {
	qr         QRService
	attendance AttendanceService
	accounts   *stubAccountRepo
	qrRepo     *stubQRRepo
	attRepo    *stubAttendanceRepo
	mailer     *captureMailer
	clock      *fakeClock
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()
	accounts := newStubAccountRepo()
	qrRepo := newStubQRRepo()
	attRepo := newStubAttendanceRepo()
	notes := newStubNotificationRepo()
	mailer := &captureMailer{}
	clock := newFakeClock(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	tokens := NewTokenService(testSecret, clock)
	qr := NewQRService(accounts, qrRepo, tokens, stubRenderer{}, mailer, clock, newTestCfg())
	attendance := NewAttendanceService(attRepo, accounts, notes, qr, tokens, mailer, clock)
	return &scanFixture{
		qr:         qr,
		attendance: attendance,
		accounts:   accounts,
		qrRepo:     qrRepo,
		attRepo:    attRepo,
		mailer:     mailer,
		clock:      clock,
	}
}

func TestIssueQR(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	resp, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.ScanURL, "/v1/attendance/scan?token=")
	assert.Equal(t, f.clock.Now().Add(time.Hour), resp.ExpiresAt)

	// The image is valid base64.
	_, err = base64.StdEncoding.DecodeString(resp.QRImage)
	assert.NoError(t, err)

	// A QR record was persisted in unused state.
	rec, err := f.qrRepo.FindByToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.False(t, rec.Used)
	assert.Equal(t, acc.ID, rec.AccountID)

	// The code was mailed to the account with a PNG attachment.
	sent := f.mailer.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "user@example.com", sent[0].ToEmail)
	assert.Equal(t, "attendance-qrcode.png", sent[0].AttachmentName)
	assert.NotEmpty(t, sent[0].Attachment)
}

func TestIssueQRUnknownAccount(t *testing.T) {
	f := newScanFixture(t)
	_, err := f.qr.Issue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestScanRecordsAttendance(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	issued, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)

	resp, err := f.attendance.Scan(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID.String(), resp.AccountID)
	assert.Equal(t, "2026-03-15", resp.Date)
	assert.Equal(t, f.clock.Now(), resp.Timestamp)

	// The QR record is consumed.
	rec, err := f.qrRepo.FindByToken(ctx, issued.Token)
	require.NoError(t, err)
	assert.True(t, rec.Used)
	require.NotNil(t, rec.UsedAt)

	// Issue email + confirmation email.
	sent := f.mailer.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "Attendance Confirmed", sent[1].Subject)
}

func TestScanSameTokenTwice(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	issued, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)

	_, err = f.attendance.Scan(ctx, issued.Token)
	require.NoError(t, err)

	_, err = f.attendance.Scan(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrQRAlreadyUsed)
}

func TestScanFreshTokenSameDay(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	first, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)
	_, err = f.attendance.Scan(ctx, first.Token)
	require.NoError(t, err)

	// A second token on an already-recorded day is spent but records nothing.
	f.clock.Advance(5 * time.Minute)
	second, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)
	_, err = f.attendance.Scan(ctx, second.Token)
	assert.ErrorIs(t, err, ErrAlreadyRecorded)

	rec, err := f.qrRepo.FindByToken(ctx, second.Token)
	require.NoError(t, err)
	assert.True(t, rec.Used)

	// Next UTC day a fresh token goes through again.
	f.clock.Advance(24 * time.Hour)
	third, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)
	resp, err := f.attendance.Scan(ctx, third.Token)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-16", resp.Date)
}

func TestScanExpiredToken(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	issued, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)

	f.clock.Advance(61 * time.Minute)

	_, err = f.attendance.Scan(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Nothing was recorded.
	all, err := f.attRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestScanTokenWithoutRecord(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")

	// A well-signed token that was never issued through the QR service has no
	// backing record and is rejected.
	tokens := NewTokenService(testSecret, f.clock)
	orphan, err := tokens.Issue(acc.ID, PurposeScan, time.Hour)
	require.NoError(t, err)

	_, err = f.attendance.Scan(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrQRNotFound)
}

func TestScanRejectsAccessToken(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")

	tokens := NewTokenService(testSecret, f.clock)
	access, err := tokens.IssueAccess(acc.ID, acc.Email, acc.Role, time.Hour)
	require.NoError(t, err)

	_, err = f.attendance.Scan(context.Background(), access)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestRecordOncePerDay(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()
	ts := f.clock.Now()

	rec, err := f.attendance.Record(ctx, acc.ID, ts)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", rec.Date)

	_, err = f.attendance.Record(ctx, acc.ID, ts.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyRecorded)
}

func TestRecordDateIsUTC(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")

	// 23:30 local on the 15th in UTC+5 is still the 15th in UTC terms only
	// until 05:00; this instant is 18:30 UTC on the 15th.
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 3, 15, 23, 30, 0, 0, loc)

	rec, err := f.attendance.Record(context.Background(), acc.ID, ts)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", rec.Date)

	// 03:30 local on the 16th in UTC+5 is 22:30 UTC on the 15th — same day.
	_, err = f.attendance.Record(context.Background(), acc.ID,
		time.Date(2026, 3, 16, 3, 30, 0, 0, loc))
	assert.ErrorIs(t, err, ErrAlreadyRecorded)
}

func TestQRHistoryAndActive(t *testing.T) {
	f := newScanFixture(t)
	acc := seedAccount(t, f.accounts, "user@example.com", goodPassword, "staff")
	ctx := context.Background()

	_, err := f.qr.Active(ctx, acc.ID)
	assert.ErrorIs(t, err, ErrQRNotFound)

	issued, err := f.qr.Issue(ctx, acc.ID)
	require.NoError(t, err)

	active, err := f.qr.Active(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, active.Used)

	_, err = f.attendance.Scan(ctx, issued.Token)
	require.NoError(t, err)

	// Consumed: no longer active, still in history.
	_, err = f.qr.Active(ctx, acc.ID)
	assert.ErrorIs(t, err, ErrQRNotFound)

	history, err := f.qr.History(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Used)
}
