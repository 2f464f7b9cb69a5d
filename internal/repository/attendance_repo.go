package repository

import (
	"context"

	"github.com/Shakeel7G/clock-it/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	// Create inserts the record with ON CONFLICT (account_id, date) DO NOTHING.
	// Returns false when a record for that account and day already exists —
	// the check-then-insert is a single atomic statement, so two concurrent
	// scans for the same day can never both succeed.
	Create(ctx context.Context, rec *model.AttendanceRecord) (bool, error)
	FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, date string) (*model.AttendanceRecord, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.AttendanceRecord, error)
	ListAll(ctx context.Context) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct{ db *gorm.DB }

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository { return &attendanceRepo{db: db} }

func (r *attendanceRepo) Create(ctx context.Context, rec *model.AttendanceRecord) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attendanceRepo) FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, date string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND date = ?", accountID, date).
		First(&rec).Error
	return &rec, err
}

func (r *attendanceRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("timestamp DESC").
		Find(&recs).Error
	return recs, err
}

func (r *attendanceRepo) ListAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&recs).Error
	return recs, err
}
