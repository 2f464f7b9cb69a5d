package worker

// email_worker.go
// Processes email jobs from QueueEmail: QR code deliveries, attendance
// confirmations, password-reset links. Sends go through the SMTP circuit
// breaker so a downed relay fast-fails and the retry/DLQ path takes over.

import (
	"context"
	"encoding/json"

	"github.com/Shakeel7G/clock-it/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
// Attachment is a PNG (the QR code); json encodes it as base64.
type EmailJobPayload struct {
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	HTMLBody       string `json:"html_body"`
	Attachment     []byte `json:"attachment,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
}

// EmailWorker sends queued emails via SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends one email. A returned error means the pool should retry or
// dead-letter the job; a malformed payload is dropped instead (retrying a
// payload that cannot unmarshal is pointless).
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload — dropping")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.HTMLBody,
			payload.Attachment, payload.AttachmentName)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
