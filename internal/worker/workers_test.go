package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/infra"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Notificaciones ───────────────────────────────────────────────────────────

type stubPublisher struct {
	grupos []string
	err    error
}

func (p *stubPublisher) Notify(_ context.Context, grupo string, _ interface{}) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.grupos = append(p.grupos, grupo)
	return 1, nil
}

func TestNotificacionWorker_PublishesToInstitutionGroup(t *testing.T) {
	pub := &stubPublisher{}
	w := NewNotificacionWorker(pub, infra.NewCircuitBreaker(infra.DefaultCBConfig()))

	raw, _ := json.Marshal(NotificacionPayload{InstitucionID: "inst-7", Tipo: NotificacionNuevoPedido})
	require.NoError(t, w.Process(context.Background(), raw))
	assert.Equal(t, []string{"inst-7"}, pub.grupos)
}

func TestNotificacionWorker_BreakerOpensAfterFailures(t *testing.T) {
	pub := &stubPublisher{err: errors.New("redis down")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	w := NewNotificacionWorker(pub, cb)
	raw, _ := json.Marshal(NotificacionPayload{InstitucionID: "inst-7"})

	require.Error(t, w.Process(context.Background(), raw))
	require.Error(t, w.Process(context.Background(), raw))
	assert.ErrorIs(t, w.Process(context.Background(), raw), infra.ErrCircuitOpen)
}

func TestNotificacionWorker_InvalidPayloadIsPermanent(t *testing.T) {
	w := NewNotificacionWorker(&stubPublisher{}, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	err := w.Process(context.Background(), json.RawMessage(`{"tipo":"x"}`))
	require.Error(t, err)
	assert.True(t, isPermanent(err))
}

// ── Reporte de cierre ────────────────────────────────────────────────────────

type stubCierres struct {
	cierre *model.Cierre
}

func (s *stubCierres) FindByID(_ context.Context, id uuid.UUID) (*model.Cierre, error) {
	if s.cierre == nil || s.cierre.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cierre, nil
}

func cierreCerrado() *model.Cierre {
	apertura := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fin := apertura.Add(8 * time.Hour)
	return &model.Cierre{
		ID:             uuid.New(),
		InstitucionID:  uuid.New(),
		MontoInicial:   decimal.NewFromInt(500),
		TotalEfectivo:  decimal.NewFromInt(20000),
		TotalTarjeta:   decimal.NewFromInt(5000),
		TotalBilletera: decimal.Zero,
		TotalDescuento: decimal.Zero,
		Estado:         model.CierreCerrado,
		FechaApertura:  apertura,
		FechaCierre:    &fin,
	}
}

func TestReporteCierreWorker_GeneratesPDFAndQueuesEmail(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := cierreCerrado()
	dir := t.TempDir()
	w := NewReporteCierreWorker(&stubCierres{cierre: c}, NewDispatcher(rdb), time.UTC, dir, "gerencia@example.com")

	raw, _ := json.Marshal(ReporteCierrePayload{CierreID: c.ID.String(), InstitucionID: c.InstitucionID.String()})
	require.NoError(t, w.Process(context.Background(), raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	rawJob, err := rdb.RPop(context.Background(), QueueEmail).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(rawJob), &job))
	var p EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "gerencia@example.com", p.ToEmail)
	assert.Contains(t, p.Body, "25000.00")
	assert.NotEmpty(t, p.PDFPath)
}

func TestReporteCierreWorker_NoRecipientSkipsEmail(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := cierreCerrado()
	w := NewReporteCierreWorker(&stubCierres{cierre: c}, NewDispatcher(rdb), time.UTC, t.TempDir(), "")

	raw, _ := json.Marshal(ReporteCierrePayload{CierreID: c.ID.String()})
	require.NoError(t, w.Process(context.Background(), raw))

	n, err := rdb.LLen(context.Background(), QueueEmail).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReporteCierreWorker_MissingCierreIsPermanent(t *testing.T) {
	w := NewReporteCierreWorker(&stubCierres{}, nil, time.UTC, t.TempDir(), "")
	raw, _ := json.Marshal(ReporteCierrePayload{CierreID: uuid.NewString()})
	err := w.Process(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, isPermanent(err))
}

// ── Email ────────────────────────────────────────────────────────────────────

type stubMailer struct {
	enabled bool
	sent    []string
}

func (m *stubMailer) Enabled() bool { return m.enabled }

func (m *stubMailer) SendReporte(to, _, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestEmailWorker(t *testing.T) {
	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "a@example.com", Subject: "s"})

	disabled := &stubMailer{}
	require.NoError(t, NewEmailWorker(disabled).Process(context.Background(), raw))
	assert.Empty(t, disabled.sent)

	enabled := &stubMailer{enabled: true}
	require.NoError(t, NewEmailWorker(enabled).Process(context.Background(), raw))
	assert.Equal(t, []string{"a@example.com"}, enabled.sent)
}
