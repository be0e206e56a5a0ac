package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type stubHandler struct {
	calls int
	errs  []error
}

func (h *stubHandler) Process(_ context.Context, _ json.RawMessage) error {
	h.calls++
	if len(h.errs) == 0 {
		return nil
	}
	err := h.errs[0]
	h.errs = h.errs[1:]
	return err
}

func init() { retryBackoff = time.Millisecond }

func TestDispatcher_EnqueueNotificacion(t *testing.T) {
	_, rdb := newTestRedis(t)
	d := NewDispatcher(rdb)
	ctx := context.Background()

	require.NoError(t, d.EnqueueNotificacion(ctx, NotificacionPayload{
		InstitucionID: "inst-1",
		Tipo:          NotificacionNuevoPedido,
		Mensaje:       "Nuevo pedido",
	}))

	raw, err := rdb.RPop(ctx, QueueNotificaciones).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobNotificacion, job.Type)

	var p NotificacionPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "inst-1", p.InstitucionID)
	assert.Equal(t, NotificacionNuevoPedido, p.Tipo)
}

func TestProcessJob_RetriesThenSucceeds(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	h := &stubHandler{errs: []error{errors.New("boom")}}
	handlers := &WorkerHandlers{Email: h}

	raw, _ := json.Marshal(Job{Type: JobEmail, Payload: json.RawMessage(`{}`)})
	processJob(ctx, rdb, handlers, QueueEmail, string(raw))

	assert.Equal(t, 2, h.calls)
	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessJob_ExhaustedGoesToDLQ(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	fail := errors.New("smtp down")
	h := &stubHandler{errs: []error{fail, fail, fail}}
	handlers := &WorkerHandlers{Email: h}

	raw, _ := json.Marshal(Job{Type: JobEmail, Payload: json.RawMessage(`{"to_email":"a@b.c"}`)})
	processJob(ctx, rdb, handlers, QueueEmail, string(raw))

	assert.Equal(t, maxJobAttempts, h.calls)
	entries, err := ReadDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JobEmail, entries[0].JobType)
	assert.Equal(t, maxJobAttempts, entries[0].Attempts)
	assert.Equal(t, "smtp down", entries[0].Reason)
}

func TestProcessJob_PermanentErrorSkipsRetries(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	h := &stubHandler{errs: []error{permanent(errors.New("bad payload"))}}
	handlers := &WorkerHandlers{Notificacion: h}

	raw, _ := json.Marshal(Job{Type: JobNotificacion, Payload: json.RawMessage(`{}`)})
	processJob(ctx, rdb, handlers, QueueNotificaciones, string(raw))

	assert.Equal(t, 1, h.calls)
	n, _ := DLQLength(ctx, rdb, QueueNotificaciones)
	assert.Equal(t, int64(1), n)
}

func TestProcessJob_UnknownTypeAndGarbage(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	raw, _ := json.Marshal(Job{Type: "afip", Payload: json.RawMessage(`{}`)})
	processJob(ctx, rdb, &WorkerHandlers{}, QueueReportes, string(raw))
	processJob(ctx, rdb, &WorkerHandlers{}, QueueReportes, "not json")

	n, err := DLQLength(ctx, rdb, QueueReportes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := withRetry(ctx, 3, func(int) error {
		calls++
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStartWorkerPool_ConsumesQueue(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{}, 1)
	handlers := &WorkerHandlers{Notificacion: handlerFunc(func(context.Context, json.RawMessage) error {
		done <- struct{}{}
		return nil
	})}
	StartWorkerPool(ctx, rdb, handlers, 1)

	require.NoError(t, NewDispatcher(rdb).EnqueueNotificacion(ctx, NotificacionPayload{InstitucionID: "x"}))
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job was not consumed")
	}
}

type handlerFunc func(context.Context, json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }
