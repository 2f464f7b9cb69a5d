package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Shakeel7G/clock-it/internal/config"
	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/repository"
	"github.com/Shakeel7G/clock-it/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// scanTokenTTL is the validity window of a scan token and its QR record.
const scanTokenTTL = time.Hour

// QRImageRenderer turns a payload string into PNG bytes.
// *infra.QRRenderer satisfies it.
type QRImageRenderer interface {
	Render(payload string) ([]byte, error)
}

// QRService owns the issuance → use lifecycle of scan tokens.
type QRService interface {
	Issue(ctx context.Context, accountID uuid.UUID) (*dto.QRIssueResponse, error)

	// MarkUsed consumes a token: the used flag transitions false→true exactly
	// once. Errors: ErrQRNotFound, ErrQRAlreadyUsed, ErrQRExpired.
	MarkUsed(ctx context.Context, token string) (*model.QRRecord, error)

	History(ctx context.Context, accountID uuid.UUID) ([]dto.QRRecordResponse, error)
	Active(ctx context.Context, accountID uuid.UUID) (*dto.QRRecordResponse, error)
}

type qrService struct {
	accounts repository.AccountRepository
	records  repository.QRRepository
	tokens   *TokenService
	renderer QRImageRenderer
	mail     EmailEnqueuer
	clock    Clock
	cfg      *config.Config
}

func NewQRService(
	accounts repository.AccountRepository,
	records repository.QRRepository,
	tokens *TokenService,
	renderer QRImageRenderer,
	mail EmailEnqueuer,
	clock Clock,
	cfg *config.Config,
) QRService {
	return &qrService{
		accounts: accounts,
		records:  records,
		tokens:   tokens,
		renderer: renderer,
		mail:     mail,
		clock:    clock,
		cfg:      cfg,
	}
}

// Issue creates a fresh scan token, persists its QR record in used=false
// state, and emails the rendered code to the account. The email is
// best-effort; the token and record are authoritative once persisted.
func (s *qrService) Issue(ctx context.Context, accountID uuid.UUID) (*dto.QRIssueResponse, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	token, err := s.tokens.Issue(acc.ID, PurposeScan, scanTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue scan token: %w", err)
	}
	scanURL := fmt.Sprintf("%s/v1/attendance/scan?token=%s", s.cfg.BaseURL, url.QueryEscape(token))

	png, err := s.renderer.Render(scanURL)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	now := s.clock.Now()
	rec := &model.QRRecord{
		AccountID:      acc.ID,
		Token:          token,
		ScanURL:        scanURL,
		EmailRecipient: &acc.Email,
		ExpiresAt:      now.Add(scanTokenTTL),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create qr record: %w", err)
	}

	enqueueEmail(ctx, s.mail, worker.EmailJobPayload{
		ToEmail: acc.Email,
		Subject: "Your Attendance QR Code",
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s, here is your QR code for recording attendance.</p>`+
				`<p>Scan it within 1 hour — it expires at %s.</p>`,
			acc.Name, rec.ExpiresAt.UTC().Format(time.RFC1123)),
		Attachment:     png,
		AttachmentName: "attendance-qrcode.png",
	})

	log.Info().Str("account_id", acc.ID.String()).Msg("scan token issued")
	return &dto.QRIssueResponse{
		Token:     token,
		ScanURL:   scanURL,
		QRImage:   base64.StdEncoding.EncodeToString(png),
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *qrService) MarkUsed(ctx context.Context, token string) (*model.QRRecord, error) {
	now := s.clock.Now()
	ok, err := s.records.MarkUsed(ctx, token, now)
	if err != nil {
		return nil, fmt.Errorf("mark qr used: %w", err)
	}
	if ok {
		return s.fetch(ctx, token)
	}

	// No row matched — distinguish why. The record cannot transition back, so
	// this read is race-free for the error classification.
	rec, err := s.records.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRNotFound
		}
		return nil, fmt.Errorf("find qr record: %w", err)
	}
	if rec.Used {
		return nil, ErrQRAlreadyUsed
	}
	return nil, ErrQRExpired
}

func (s *qrService) fetch(ctx context.Context, token string) (*model.QRRecord, error) {
	rec, err := s.records.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find qr record: %w", err)
	}
	return rec, nil
}

func (s *qrService) History(ctx context.Context, accountID uuid.UUID) ([]dto.QRRecordResponse, error) {
	recs, err := s.records.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QRRecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, qrToResponse(&recs[i]))
	}
	return out, nil
}

func (s *qrService) Active(ctx context.Context, accountID uuid.UUID) (*dto.QRRecordResponse, error) {
	rec, err := s.records.FindActive(ctx, accountID, s.clock.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRNotFound
		}
		return nil, err
	}
	resp := qrToResponse(rec)
	return &resp, nil
}

func qrToResponse(q *model.QRRecord) dto.QRRecordResponse {
	return dto.QRRecordResponse{
		ID:        q.ID.String(),
		ScanURL:   q.ScanURL,
		Used:      q.Used,
		UsedAt:    q.UsedAt,
		CreatedAt: q.CreatedAt,
		ExpiresAt: q.ExpiresAt,
	}
}
