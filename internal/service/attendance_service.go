package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/repository"
	"github.com/Shakeel7G/clock-it/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AttendanceService records clock-ins and runs the scan pipeline.
type AttendanceService interface {
	// Scan verifies the token, consumes its QR record, and records attendance.
	// Errors: ErrTokenExpired/ErrTokenMalformed/ErrWrongPurpose (verification),
	// ErrQRNotFound/ErrQRAlreadyUsed/ErrQRExpired (lifecycle),
	// ErrAlreadyRecorded (one clock-in per day).
	Scan(ctx context.Context, token string) (*dto.ScanResponse, error)

	// Record writes at most one attendance record per account per UTC day.
	Record(ctx context.Context, accountID uuid.UUID, ts time.Time) (*model.AttendanceRecord, error)

	MyHistory(ctx context.Context, accountID uuid.UUID) (*dto.AttendanceListResponse, error)
	All(ctx context.Context) (*dto.AttendanceListResponse, error)
}

type attendanceService struct {
	attendance    repository.AttendanceRepository
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	qr            QRService
	tokens        *TokenService
	mail          EmailEnqueuer
	clock         Clock
}

func NewAttendanceService(
	attendance repository.AttendanceRepository,
	accounts repository.AccountRepository,
	notifications repository.NotificationRepository,
	qr QRService,
	tokens *TokenService,
	mail EmailEnqueuer,
	clock Clock,
) AttendanceService {
	return &attendanceService{
		attendance:    attendance,
		accounts:      accounts,
		notifications: notifications,
		qr:            qr,
		tokens:        tokens,
		mail:          mail,
		clock:         clock,
	}
}

// Scan is the full pipeline: verify signature/expiry/purpose → consume the QR
// record → record attendance → confirm by email. The QR consumption and the
// attendance insert are the authoritative state changes; everything after them
// is best-effort and never rolls them back. A caller retrying the whole
// request is rejected as a duplicate, which is the intended steady state.
func (s *attendanceService) Scan(ctx context.Context, token string) (*dto.ScanResponse, error) {
	claims, err := s.tokens.Verify(token, PurposeScan)
	if err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	if _, err := s.qr.MarkUsed(ctx, token); err != nil {
		return nil, err
	}

	rec, err := s.Record(ctx, accountID, s.clock.Now())
	if err != nil {
		// The QR stays consumed: a second token on an already-recorded day is
		// spent, and the day's record is untouched.
		return nil, err
	}

	if acc, aerr := s.accounts.FindByID(ctx, accountID); aerr == nil {
		enqueueEmail(ctx, s.mail, worker.EmailJobPayload{
			ToEmail: acc.Email,
			Subject: "Attendance Confirmed",
			HTMLBody: fmt.Sprintf(
				`<p>Hi %s, you clocked in at <strong>%s</strong>.</p>`,
				acc.Name, rec.Timestamp.UTC().Format(time.RFC1123)),
		})
		notify(ctx, s.notifications, accountID, "Attendance Recorded",
			fmt.Sprintf("Attendance recorded for %s.", rec.Date))
	} else {
		log.Warn().Err(aerr).Str("account_id", accountID.String()).Msg("attendance recorded but account lookup for confirmation failed")
	}

	return &dto.ScanResponse{
		AccountID: accountID.String(),
		Timestamp: rec.Timestamp,
		Date:      rec.Date,
	}, nil
}

func (s *attendanceService) Record(ctx context.Context, accountID uuid.UUID, ts time.Time) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{
		AccountID: accountID,
		Timestamp: ts,
		Date:      model.AttendanceDate(ts),
	}
	inserted, err := s.attendance.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create attendance record: %w", err)
	}
	if !inserted {
		return nil, ErrAlreadyRecorded
	}
	log.Info().Str("account_id", accountID.String()).Str("date", rec.Date).Msg("attendance recorded")
	return rec, nil
}

func (s *attendanceService) MyHistory(ctx context.Context, accountID uuid.UUID) (*dto.AttendanceListResponse, error) {
	recs, err := s.attendance.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return attendanceToList(recs), nil
}

func (s *attendanceService) All(ctx context.Context) (*dto.AttendanceListResponse, error) {
	recs, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return attendanceToList(recs), nil
}

func attendanceToList(recs []model.AttendanceRecord) *dto.AttendanceListResponse {
	out := make([]dto.AttendanceResponse, 0, len(recs))
	for i := range recs {
		out = append(out, dto.AttendanceResponse{
			ID:        recs[i].ID.String(),
			AccountID: recs[i].AccountID.String(),
			Timestamp: recs[i].Timestamp,
			Date:      recs[i].Date,
		})
	}
	return &dto.AttendanceListResponse{Attendance: out, TotalRecords: len(out)}
}
