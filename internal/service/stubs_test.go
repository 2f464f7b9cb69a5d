package service

// stubs_test.go
// In-memory repository stubs and a controllable clock shared by the service
// tests. The stubs keep the same conditional-update semantics as the SQL
// implementations (guarded by a mutex) so concurrency-sensitive behavior can
// be exercised without a database.

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shakeel7G/clock-it/internal/config"
	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		BaseURL:            "http://localhost:8000",
		FrontendOrigin:     "http://localhost:3000",
	}
}

// ── fakeClock ────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ── stubAccountRepo ──────────────────────────────────────────────────────────

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[uuid.UUID]*model.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id uuid.UUID, name string, phone, backupEmail *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name != "" {
		a.Name = name
	}
	if phone != nil {
		a.Phone = phone
	}
	if backupEmail != nil {
		a.BackupEmail = backupEmail
	}
	return nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = passwordHash
	a.ResetTokenHash = nil
	a.ResetExpires = nil
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) RegisterFailedLogin(_ context.Context, id uuid.UUID, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return 0, nil, gorm.ErrRecordNotFound
	}
	a.FailedLoginAttempts++
	if a.FailedLoginAttempts >= threshold {
		until := lockUntil
		a.LockUntil = &until
	}
	return a.FailedLoginAttempts, a.LockUntil, nil
}

func (r *stubAccountRepo) ClearLock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.FailedLoginAttempts = 0
	a.LockUntil = nil
	return nil
}

func (r *stubAccountRepo) SetResetToken(_ context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.ResetTokenHash = &tokenHash
	a.ResetExpires = &expires
	return nil
}

func (r *stubAccountRepo) ConsumeResetToken(_ context.Context, id uuid.UUID, tokenHash string, now time.Time, newPasswordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	if a.ResetTokenHash == nil || *a.ResetTokenHash != tokenHash {
		return false, nil
	}
	if a.ResetExpires == nil || !a.ResetExpires.After(now) {
		return false, nil
	}
	a.PasswordHash = newPasswordHash
	a.ResetTokenHash = nil
	a.ResetExpires = nil
	return true, nil
}

// ── stubAttendanceRepo ───────────────────────────────────────────────────────

type stubAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*model.AttendanceRecord // accountID + "|" + date
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func attendanceKey(accountID uuid.UUID, date string) string {
	return accountID.String() + "|" + date
}

func (r *stubAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attendanceKey(rec.AccountID, rec.Date)
	if _, exists := r.records[key]; exists {
		return false, nil
	}
	rec.ID = uuid.New()
	r.records[key] = rec
	return true, nil
}

func (r *stubAttendanceRepo) FindByAccountAndDate(_ context.Context, accountID uuid.UUID, date string) (*model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[attendanceKey(accountID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *stubAttendanceRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubAttendanceRepo) ListAll(_ context.Context) ([]model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AttendanceRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out, nil
}

// ── stubQRRepo ───────────────────────────────────────────────────────────────

type stubQRRepo struct {
	mu      sync.Mutex
	records map[string]*model.QRRecord // keyed by token
}

func newStubQRRepo() *stubQRRepo {
	return &stubQRRepo{records: make(map[string]*model.QRRecord)}
}

func (r *stubQRRepo) Create(_ context.Context, q *model.QRRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[q.Token]; exists {
		return gorm.ErrDuplicatedKey
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	r.records[q.Token] = q
	return nil
}

func (r *stubQRRepo) FindByToken(_ context.Context, token string) (*model.QRRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.records[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *stubQRRepo) MarkUsed(_ context.Context, token string, usedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.records[token]
	if !ok || q.Used || !q.ExpiresAt.After(usedAt) {
		return false, nil
	}
	q.Used = true
	at := usedAt
	q.UsedAt = &at
	return true, nil
}

func (r *stubQRRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]model.QRRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QRRecord
	for _, q := range r.records {
		if q.AccountID == accountID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *stubQRRepo) FindActive(_ context.Context, accountID uuid.UUID, now time.Time) (*model.QRRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.records {
		if q.AccountID == accountID && !q.Used && q.ExpiresAt.After(now) {
			cp := *q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── stubNotificationRepo ─────────────────────────────────────────────────────

type stubNotificationRepo struct {
	mu    sync.Mutex
	notes []model.Notification
}

func newStubNotificationRepo() *stubNotificationRepo { return &stubNotificationRepo{} }

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	r.notes = append(r.notes, *n)
	return nil
}

func (r *stubNotificationRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notes {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	return out, nil
}

// ── captureMailer ────────────────────────────────────────────────────────────

// captureMailer records every enqueued email instead of touching Redis.
type captureMailer struct {
	mu   sync.Mutex
	sent []worker.EmailJobPayload
}

func (m *captureMailer) EnqueueEmail(_ context.Context, payload worker.EmailJobPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, payload)
	return nil
}

func (m *captureMailer) all() []worker.EmailJobPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]worker.EmailJobPayload, len(m.sent))
	copy(out, m.sent)
	return out
}

// ── stubRenderer ─────────────────────────────────────────────────────────────

type stubRenderer struct{}

func (stubRenderer) Render(string) ([]byte, error) {
	return []byte("\x89PNG fake image"), nil
}

// ── seeding helpers ──────────────────────────────────────────────────────────

func seedAccount(t *testing.T, repo *stubAccountRepo, email, password, role string) *model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	acc := &model.Account{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}
