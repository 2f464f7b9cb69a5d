package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Shakeel7G/clock-it/internal/config"
	"github.com/Shakeel7G/clock-it/internal/repository"
	"github.com/Shakeel7G/clock-it/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 30 * time.Minute

// RecoveryService implements password recovery. RequestReset never reveals
// whether an account exists; PerformReset consumes the stored token hash and
// swaps the password in a single conditional update.
type RecoveryService interface {
	RequestReset(ctx context.Context, email, backupEmail string) error
	PerformReset(ctx context.Context, email, rawToken, newPassword string) error
}

type recoveryService struct {
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	mail          EmailEnqueuer
	clock         Clock
	cfg           *config.Config
}

func NewRecoveryService(
	accounts repository.AccountRepository,
	notifications repository.NotificationRepository,
	mail EmailEnqueuer,
	clock Clock,
	cfg *config.Config,
) RecoveryService {
	return &recoveryService{
		accounts:      accounts,
		notifications: notifications,
		mail:          mail,
		clock:         clock,
		cfg:           cfg,
	}
}

// RequestReset issues a fresh reset token and emails it to the primary email,
// or to the backup email when the caller supplied one that matches the
// account's registered backup (case-insensitive). A mismatched backup email is
// treated like a nonexistent account and logged for audit. Returning nil in
// the not-found paths keeps the HTTP response generic in every case.
func (s *recoveryService) RequestReset(ctx context.Context, email, backupEmail string) error {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		log.Debug().Str("email", normalizeEmail(email)).Msg("reset requested for unknown email")
		return nil
	}

	target := acc.Email
	if backupEmail != "" {
		if acc.BackupEmail == nil || normalizeEmail(*acc.BackupEmail) != normalizeEmail(backupEmail) {
			log.Warn().Str("account_id", acc.ID.String()).Msg("reset requested with mismatched backup email")
			return nil
		}
		target = *acc.BackupEmail
	}

	raw, hash, err := NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := s.clock.Now().Add(resetTokenTTL)
	if err := s.accounts.SetResetToken(ctx, acc.ID, hash, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.cfg.FrontendOrigin, raw, url.QueryEscape(target))

	enqueueEmail(ctx, s.mail, worker.EmailJobPayload{
		ToEmail: target,
		Subject: "Password Reset Request",
		HTMLBody: fmt.Sprintf(
			`<p>Use this link to reset your password: <a href="%s">%s</a></p>`+
				`<p>This link expires in 30 minutes. If you didn't request this, ignore this message.</p>`,
			resetLink, resetLink),
	})
	notify(ctx, s.notifications, acc.ID, "Password Reset Requested",
		fmt.Sprintf("Reset link sent to %s", target))
	return nil
}

// PerformReset validates the presented token against the stored hash and
// expiry, then replaces the password and clears the reset state atomically.
func (s *recoveryService) PerformReset(ctx context.Context, email, rawToken, newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrInvalidOrExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.accounts.ConsumeResetToken(ctx, acc.ID, HashResetToken(rawToken), s.clock.Now(), string(hash))
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return ErrInvalidOrExpired
	}

	notify(ctx, s.notifications, acc.ID, "Password Reset", "Password reset successfully via email.")
	log.Info().Str("account_id", acc.ID.String()).Msg("password reset completed")
	return nil
}
