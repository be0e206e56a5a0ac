package worker

// notificacion_worker.go
// Delivers staff notifications (new orders, expiry alerts) to the
// institution's pub/sub group. Delivery is fire-and-forget: a group with no
// subscribers is not an error.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	NotificacionNuevoPedido = "nuevo_pedido"
	NotificacionAviso       = "aviso_vencimiento"
	NotificacionVencida     = "ocupacion_vencida"
)

// NotificacionPayload is the job envelope sent to QueueNotificaciones.
// InstitucionID doubles as the delivery group.
type NotificacionPayload struct {
	InstitucionID string `json:"institucion_id"`
	Tipo          string `json:"tipo"`
	HabitacionID  string `json:"habitacion_id,omitempty"`
	ReservaID     string `json:"reserva_id,omitempty"`
	FinPrevisto   string `json:"fin_previsto,omitempty"` // RFC 3339
	Mensaje       string `json:"mensaje"`
}

// Publisher is satisfied by *infra.Notifier.
type Publisher interface {
	Notify(ctx context.Context, grupo string, message interface{}) (int64, error)
}

// NotificacionWorker publishes notification jobs through a circuit breaker so
// a Redis outage fails fast instead of stalling the pool.
type NotificacionWorker struct {
	publisher Publisher
	cb        *infra.CircuitBreaker
}

func NewNotificacionWorker(publisher Publisher, cb *infra.CircuitBreaker) *NotificacionWorker {
	return &NotificacionWorker{publisher: publisher, cb: cb}
}

func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("notificacion_worker: invalid payload: %w", err))
	}
	if payload.InstitucionID == "" {
		return permanent(fmt.Errorf("notificacion_worker: missing institucion_id"))
	}

	var receivers int64
	err := w.cb.Execute(func() error {
		n, err := w.publisher.Notify(ctx, payload.InstitucionID, payload)
		receivers = n
		return err
	})
	if err != nil {
		return err
	}
	log.Debug().
		Str("grupo", payload.InstitucionID).
		Str("tipo", payload.Tipo).
		Int64("receivers", receivers).
		Msg("notificacion_worker: delivered")
	return nil
}
