package repository

import (
	"context"
	"time"

	"github.com/Shakeel7G/clock-it/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string, phone, backupEmail *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// RegisterFailedLogin increments the failed-login counter and, when the
	// incremented value reaches threshold, sets lock_until — all in one SQL
	// statement so concurrent attempts on the same account cannot lose updates.
	// Returns the post-increment counter and the effective lock_until.
	RegisterFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil time.Time) (int, *time.Time, error)

	// ClearLock resets the counter and lock timestamp (successful login or
	// explicit admin unlock).
	ClearLock(ctx context.Context, id uuid.UUID) error

	// SetResetToken stores the hash/expiry of a fresh reset token, overwriting
	// any previous one (a single outstanding token per account).
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error

	// ConsumeResetToken swaps the password and clears the reset state in one
	// conditional update. Returns false when the stored hash does not match or
	// the token has expired — nothing is modified in that case.
	ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time, newPasswordHash string) (bool, error)
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&a).Error
	return &a, err
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *accountRepo) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Order("created_at").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name string, phone, backupEmail *string) error {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if phone != nil {
		updates["phone"] = phone
	}
	if backupEmail != nil {
		updates["backup_email"] = backupEmail
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(updates).Error
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":    passwordHash,
			"reset_token_hash": nil,
			"reset_expires":    nil,
		}).Error
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Account{}, id).Error
}

func (r *accountRepo) RegisterFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	var out struct {
		FailedLoginAttempts int
		LockUntil           *time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		UPDATE accounts
		SET failed_login_attempts = failed_login_attempts + 1,
		    lock_until = CASE
		        WHEN failed_login_attempts + 1 >= ? THEN ?
		        ELSE lock_until
		    END,
		    updated_at = NOW()
		WHERE id = ?
		RETURNING failed_login_attempts, lock_until`,
		threshold, lockUntil, id,
	).Scan(&out).Error
	return out.FailedLoginAttempts, out.LockUntil, err
}

func (r *accountRepo) ClearLock(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"lock_until":            nil,
		}).Error
}

func (r *accountRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash": tokenHash,
			"reset_expires":    expires,
		}).Error
}

func (r *accountRepo) ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time, newPasswordHash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND reset_token_hash = ? AND reset_expires > ?", id, tokenHash, now).
		Updates(map[string]interface{}{
			"password_hash":    newPasswordHash,
			"reset_token_hash": nil,
			"reset_expires":    nil,
		})
	return res.RowsAffected > 0, res.Error
}
