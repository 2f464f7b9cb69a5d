package service

import (
	"context"

	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/repository"
	"github.com/Shakeel7G/clock-it/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailEnqueuer abstracts the async mail dispatcher so tests can capture jobs.
// *worker.Dispatcher satisfies it in production.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// notify writes an in-app notification. Best-effort: failures are logged and
// never abort the operation that triggered them.
func notify(ctx context.Context, repo repository.NotificationRepository, accountID uuid.UUID, title, message string) {
	n := &model.Notification{AccountID: accountID, Title: title, Message: message}
	if err := repo.Create(ctx, n); err != nil {
		log.Warn().Err(err).Str("account_id", accountID.String()).Msg("failed to write notification")
	}
}

// enqueueEmail hands a mail job to the dispatcher. Best-effort: the
// authoritative state is already committed when this runs, so a queue failure
// is logged and swallowed.
func enqueueEmail(ctx context.Context, mail EmailEnqueuer, payload worker.EmailJobPayload) {
	if err := mail.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("failed to enqueue email")
	}
}
