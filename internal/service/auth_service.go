package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Shakeel7G/clock-it/internal/config"
	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	lockDuration    = 30 * time.Minute
	bcryptCost      = 12
)

// dummyHash is compared against when the account does not exist, so the
// response time does not reveal which emails are registered.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcryptCost)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AccountResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword string) error
	Unlock(ctx context.Context, email string) error

	GetAccount(ctx context.Context, id uuid.UUID) (*dto.AccountResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) error
	ListAccounts(ctx context.Context) ([]dto.AccountResponse, error)
	DeleteAccount(ctx context.Context, id, requesterID uuid.UUID) error
}

type authService struct {
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	tokens        *TokenService
	clock         Clock
	cfg           *config.Config
}

func NewAuthService(
	accounts repository.AccountRepository,
	notifications repository.NotificationRepository,
	tokens *TokenService,
	clock Clock,
	cfg *config.Config,
) AuthService {
	return &authService{
		accounts:      accounts,
		notifications: notifications,
		tokens:        tokens,
		clock:         clock,
		cfg:           cfg,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AccountResponse, error) {
	if err := ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}
	acc := &model.Account{
		Name:         req.Name,
		Email:        normalizeEmail(req.Email),
		Phone:        req.Phone,
		BackupEmail:  normalizeEmailPtr(req.BackupEmail),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	notify(ctx, s.notifications, acc.ID, "Welcome!", "Your account has been created successfully.")
	log.Info().Str("account_id", acc.ID.String()).Msg("account registered")
	return accountToResponse(acc), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	if acc.Locked(now) {
		return nil, &LockedError{MinutesRemaining: minutesUntil(now, *acc.LockUntil)}
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		attempts, _, ferr := s.accounts.RegisterFailedLogin(ctx, acc.ID, maxFailedLogins, now.Add(lockDuration))
		if ferr != nil {
			log.Error().Err(ferr).Str("account_id", acc.ID.String()).Msg("failed to register login attempt")
			return nil, ErrInvalidCredentials
		}
		if attempts >= maxFailedLogins {
			log.Warn().Str("account_id", acc.ID.String()).Int("attempts", attempts).Msg("account locked out")
			return nil, &LockedError{MinutesRemaining: int(lockDuration.Minutes())}
		}
		return nil, ErrInvalidCredentials
	}

	// Successful authentication — only reachable while Active.
	if acc.FailedLoginAttempts > 0 || acc.LockUntil != nil {
		if err := s.accounts.ClearLock(ctx, acc.ID); err != nil {
			log.Error().Err(err).Str("account_id", acc.ID.String()).Msg("failed to reset login attempts")
		}
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.tokens.IssueAccess(acc.ID, acc.Email, acc.Role, ttl)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	notify(ctx, s.notifications, acc.ID, "Login Successful", "You logged in successfully.")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        *accountToResponse(acc),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return ErrAccountNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, acc.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	notify(ctx, s.notifications, acc.ID, "Password Changed", "Your password was changed successfully.")
	return nil
}

// Unlock clears the lockout state regardless of its current value.
// Admin-only; the route enforces the role.
func (s *authService) Unlock(ctx context.Context, email string) error {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrAccountNotFound
	}
	if err := s.accounts.ClearLock(ctx, acc.ID); err != nil {
		return fmt.Errorf("clear lock: %w", err)
	}
	notify(ctx, s.notifications, acc.ID, "Account Unlocked", "Your account was manually unlocked.")
	log.Info().Str("account_id", acc.ID.String()).Msg("account unlocked by admin")
	return nil
}

func (s *authService) GetAccount(ctx context.Context, id uuid.UUID) (*dto.AccountResponse, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return accountToResponse(acc), nil
}

func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) error {
	return s.accounts.UpdateProfile(ctx, id, req.Name, req.Phone, normalizeEmailPtr(req.BackupEmail))
}

func (s *authService) ListAccounts(ctx context.Context) ([]dto.AccountResponse, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, *accountToResponse(&accounts[i]))
	}
	return out, nil
}

func (s *authService) DeleteAccount(ctx context.Context, id, requesterID uuid.UUID) error {
	if id == requesterID {
		return ErrSelfDeletion
	}
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return ErrAccountNotFound
	}
	return s.accounts.Delete(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeEmailPtr(email *string) *string {
	if email == nil {
		return nil
	}
	n := normalizeEmail(*email)
	return &n
}

// minutesUntil rounds up — "1 minute remaining" until the lock actually ends.
func minutesUntil(now, until time.Time) int {
	return int(math.Ceil(until.Sub(now).Minutes()))
}

func accountToResponse(a *model.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		BackupEmail: a.BackupEmail,
		Role:        a.Role,
	}
}
