package repository

import (
	"context"
	"time"

	"github.com/Shakeel7G/clock-it/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QRRepository interface {
	Create(ctx context.Context, q *model.QRRecord) error
	FindByToken(ctx context.Context, token string) (*model.QRRecord, error)

	// MarkUsed flips used false→true for an unexpired record in one conditional
	// UPDATE. Returns false when no row matched — the token is unknown, already
	// consumed, or expired; the caller distinguishes with a follow-up read.
	// The losing side of a concurrent double-scan always lands here.
	MarkUsed(ctx context.Context, token string, usedAt time.Time) (bool, error)

	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.QRRecord, error)
	FindActive(ctx context.Context, accountID uuid.UUID, now time.Time) (*model.QRRecord, error)
}

type qrRepo struct{ db *gorm.DB }

func NewQRRepository(db *gorm.DB) QRRepository { return &qrRepo{db: db} }

func (r *qrRepo) Create(ctx context.Context, q *model.QRRecord) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *qrRepo) FindByToken(ctx context.Context, token string) (*model.QRRecord, error) {
	var q model.QRRecord
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&q).Error
	return &q, err
}

func (r *qrRepo) MarkUsed(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.QRRecord{}).
		Where("token = ? AND used = false AND expires_at > ?", token, usedAt).
		Updates(map[string]interface{}{
			"used":    true,
			"used_at": usedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *qrRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.QRRecord, error) {
	var recs []model.QRRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *qrRepo) FindActive(ctx context.Context, accountID uuid.UUID, now time.Time) (*model.QRRecord, error) {
	var q model.QRRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND used = false AND expires_at > ?", accountID, now).
		Order("created_at DESC").
		First(&q).Error
	return &q, err
}
