package worker

// reporte_cierre_worker.go
// Renders the PDF report of a closed cash register and, when a recipient is
// configured, queues it for email delivery.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/infra"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReporteCierrePayload is the job envelope sent to QueueReportes.
type ReporteCierrePayload struct {
	CierreID      string `json:"cierre_id"`
	InstitucionID string `json:"institucion_id"`
}

// CierreLoader is satisfied by repository.CierreRepository.
type CierreLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cierre, error)
}

type ReporteCierreWorker struct {
	cierres      CierreLoader
	dispatcher   *Dispatcher
	loc          *time.Location
	storagePath  string
	destinatario string
}

func NewReporteCierreWorker(cierres CierreLoader, dispatcher *Dispatcher, loc *time.Location, storagePath, destinatario string) *ReporteCierreWorker {
	return &ReporteCierreWorker{
		cierres:      cierres,
		dispatcher:   dispatcher,
		loc:          loc,
		storagePath:  storagePath,
		destinatario: destinatario,
	}
}

func (w *ReporteCierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteCierrePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("reporte_cierre_worker: invalid payload: %w", err))
	}
	id, err := uuid.Parse(payload.CierreID)
	if err != nil {
		return permanent(fmt.Errorf("reporte_cierre_worker: invalid cierre_id: %w", err))
	}

	cierre, err := w.cierres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permanent(fmt.Errorf("reporte_cierre_worker: cierre %s not found", id))
		}
		return err
	}
	if cierre.Estado != model.CierreCerrado {
		return permanent(fmt.Errorf("reporte_cierre_worker: cierre %s is still open", id))
	}

	path, err := infra.GenerateCierrePDF(cierre, w.loc, w.storagePath)
	if err != nil {
		return fmt.Errorf("reporte_cierre_worker: pdf: %w", err)
	}
	log.Info().Str("cierre_id", id.String()).Str("path", path).Msg("reporte_cierre_worker: pdf generated")

	if w.destinatario == "" || w.dispatcher == nil {
		return nil
	}
	fecha := cierre.FechaApertura.In(w.loc).Format("02/01/2006")
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.destinatario,
		Subject: fmt.Sprintf("Cierre de caja %s", fecha),
		Body: fmt.Sprintf("Se adjunta el reporte del cierre de caja.\nPagos: %d\nTotal: $%s\n",
			len(cierre.Pagos), cierre.Total().StringFixed(2)),
		PDFPath: path,
	})
}
