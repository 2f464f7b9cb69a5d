package infra

import (
	"fmt"

	"github.com/Shakeel7G/clock-it/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. TranslateError is
// enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey,
// which the services map to their conflict errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations applies the schema. AutoMigrate creates the tables and the
// unique indexes the core invariants depend on:
//   - accounts.email
//   - attendance_records (account_id, date)
//   - qr_records.token
//
// gen_random_uuid() needs pgcrypto on Postgres < 13, so the extension is
// ensured first.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	return db.AutoMigrate(
		&model.Account{},
		&model.QRRecord{},
		&model.AttendanceRecord{},
		&model.Notification{},
	)
}
