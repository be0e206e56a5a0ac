package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificaciones = "jobs:notificaciones"
	QueueReportes       = "jobs:reportes"
	QueueEmail          = "jobs:email"

	JobNotificacion  = "notificacion"
	JobReporteCierre = "reporte_cierre"
	JobEmail         = "email"

	maxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers maps each job type to its handler. Wired in cmd/server.
type WorkerHandlers struct {
	Notificacion  JobHandler
	ReporteCierre JobHandler
	Email         JobHandler
}

func (h *WorkerHandlers) handlerFor(jobType string) JobHandler {
	if h == nil {
		return nil
	}
	switch jobType {
	case JobNotificacion:
		return h.Notificacion
	case JobReporteCierre:
		return h.ReporteCierre
	case JobEmail:
		return h.Email
	}
	return nil
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueNotificacion(ctx context.Context, payload NotificacionPayload) error {
	return d.enqueue(ctx, QueueNotificaciones, JobNotificacion, payload)
}

func (d *Dispatcher) EnqueueReporteCierre(ctx context.Context, payload ReporteCierrePayload) error {
	return d.enqueue(ctx, QueueReportes, JobReporteCierre, payload)
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	// Notifications first: BRPOP serves the keys in order.
	queues := []string{QueueNotificaciones, QueueReportes, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// processJob runs one job with retries; exhausted jobs go to the DLQ.
func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, "desconocido", quoted, "envelope invalido: "+err.Error(), 0)
		return
	}

	h := handlers.handlerFor(job.Type)
	if h == nil {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "sin handler", 0)
		metrics.Jobs.WithLabelValues(job.Type, "dlq").Inc()
		return
	}

	attempts := 0
	err := withRetry(ctx, maxJobAttempts, func(attempt int) error {
		attempts = attempt + 1
		return h.Process(ctx, job.Payload)
	})
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Int("attempts", attempts).Msg("job failed")
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), attempts)
		metrics.Jobs.WithLabelValues(job.Type, "dlq").Inc()
		return
	}
	metrics.Jobs.WithLabelValues(job.Type, "ok").Inc()
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// retryBackoff is the base delay of withRetry; tests shorten it.
var retryBackoff = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * retryBackoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if isPermanent(err) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}

// permanentError marks failures that retrying cannot fix (bad payload, missing row).
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return permanentError{err: err} }

func isPermanent(err error) bool {
	_, ok := err.(permanentError)
	return ok
}
