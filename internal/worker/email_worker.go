package worker

// email_worker.go
// Processes email jobs from QueueEmail. Sends closure reports via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ReporteMailer is satisfied by *infra.Mailer.
type ReporteMailer interface {
	Enabled() bool
	SendReporte(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer ReporteMailer
}

func NewEmailWorker(mailer ReporteMailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends an email with the PDF report as attachment.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Enabled() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	if err := w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: reporte sent")
	return nil
}
