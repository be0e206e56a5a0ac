package worker

// alertas.go: expiry alert scanner.
// Every tick the scanner re-derives pending alerts from the active
// reservations, so a restart loses nothing. Alerts due before the next tick
// get a cancellable timer; delivery is deduplicated in Redis per
// (reserva, tipo, fin previsto) so an extension produces fresh alerts.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/metrics"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const alertaDedupeTTL = 48 * time.Hour

// ReservasActivas is satisfied by repository.ReservaRepository.
type ReservasActivas interface {
	ListActivas(ctx context.Context) ([]model.Reserva, error)
}

type AlertScannerConfig struct {
	Reservas   ReservasActivas
	Dispatcher *Dispatcher
	RDB        *redis.Client
	Clock      clock.Clock
	Intervalo  time.Duration
	// Aviso is how long before the planned end the warning fires.
	Aviso time.Duration
}

type AlertScanner struct {
	cfg AlertScannerConfig

	mu          sync.Mutex
	programadas map[string]*programada
	wg          sync.WaitGroup
}

// programada is one scheduled alert. Its address identifies the schedule, so a
// fired timer only forgets its own entry.
type programada struct{ timer *time.Timer }

func NewAlertScanner(cfg AlertScannerConfig) *AlertScanner {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	return &AlertScanner{cfg: cfg, programadas: make(map[string]*programada)}
}

// Start runs the scanner in the background until ctx is cancelled.
func (s *AlertScanner) Start(ctx context.Context) {
	go s.Run(ctx)
}

func (s *AlertScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Intervalo)
	defer ticker.Stop()

	log.Info().Dur("intervalo", s.cfg.Intervalo).Dur("aviso", s.cfg.Aviso).Msg("alert scanner started")
	s.Scan(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			log.Info().Msg("alert scanner stopped")
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

type alerta struct {
	key     string
	at      time.Time
	payload NotificacionPayload
}

// Scan lists the active reservations and schedules every alert due before
// the next tick. Timers whose alert no longer applies are cancelled.
func (s *AlertScanner) Scan(ctx context.Context) {
	reservas, err := s.cfg.Reservas.ListActivas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alert scanner: list active reservations")
		return
	}

	now := s.cfg.Clock.Now()
	horizonte := now.Add(s.cfg.Intervalo)
	vigentes := make(map[string]alerta)
	for i := range reservas {
		for _, a := range s.alertasDe(&reservas[i], now) {
			if a.at.After(horizonte) {
				continue
			}
			vigentes[a.key] = a
		}
	}

	s.mu.Lock()
	for key, p := range s.programadas {
		if _, ok := vigentes[key]; ok {
			continue
		}
		if p.timer.Stop() {
			s.wg.Done()
		}
		delete(s.programadas, key)
	}
	s.mu.Unlock()

	for _, a := range vigentes {
		delay := a.at.Sub(now)
		if delay < 0 {
			delay = 0
		}
		s.programar(ctx, a, delay)
	}
}

// alertasDe derives the alerts of one reservation. Paused reservations get
// none. A warning whose end has already passed is dropped.
func (s *AlertScanner) alertasDe(r *model.Reserva, now time.Time) []alerta {
	if r.Pausada() || r.Terminal() {
		return nil
	}
	fin := r.FinPrevisto()
	base := NotificacionPayload{
		InstitucionID: r.InstitucionID.String(),
		HabitacionID:  r.HabitacionID.String(),
		ReservaID:     r.ID.String(),
		FinPrevisto:   fin.UTC().Format(time.RFC3339),
	}
	nombre := r.HabitacionID.String()
	if r.Habitacion != nil {
		nombre = r.Habitacion.Nombre
	}

	var out []alerta
	if s.cfg.Aviso > 0 && now.Before(fin) {
		p := base
		p.Tipo = NotificacionAviso
		p.Mensaje = fmt.Sprintf("La habitación %s vence en %d minutos", nombre, int(s.cfg.Aviso.Minutes()))
		out = append(out, alerta{key: alertaKey(r, NotificacionAviso, fin), at: fin.Add(-s.cfg.Aviso), payload: p})
	}
	p := base
	p.Tipo = NotificacionVencida
	p.Mensaje = fmt.Sprintf("La habitación %s superó el tiempo contratado", nombre)
	out = append(out, alerta{key: alertaKey(r, NotificacionVencida, fin), at: fin, payload: p})
	return out
}

func alertaKey(r *model.Reserva, tipo string, fin time.Time) string {
	return fmt.Sprintf("alerta:%s:%s:%d", r.ID, tipo, fin.Unix())
}

func (s *AlertScanner) programar(ctx context.Context, a alerta, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programadas[a.key]; ok {
		return
	}
	s.wg.Add(1)
	p := &programada{}
	p.timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		defer s.olvidar(a.key, p)
		s.disparar(ctx, a)
	})
	s.programadas[a.key] = p
}

// olvidar drops key only while it still maps to p; a later Scan may already
// have scheduled a newer alert under the same key.
func (s *AlertScanner) olvidar(key string, p *programada) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.programadas[key] == p {
		delete(s.programadas, key)
	}
}

func (s *AlertScanner) disparar(ctx context.Context, a alerta) {
	if ctx.Err() != nil {
		return
	}

	nuevo, err := s.cfg.RDB.SetNX(ctx, a.key, 1, alertaDedupeTTL).Result()
	if err != nil {
		log.Error().Err(err).Str("key", a.key).Msg("alert scanner: dedupe")
		return
	}
	if !nuevo {
		return
	}
	if err := s.cfg.Dispatcher.EnqueueNotificacion(ctx, a.payload); err != nil {
		// Release the key so the next scan retries.
		s.cfg.RDB.Del(ctx, a.key)
		log.Error().Err(err).Str("reserva_id", a.payload.ReservaID).Msg("alert scanner: enqueue")
		return
	}
	metrics.Alertas.WithLabelValues(a.payload.Tipo).Inc()
	log.Info().
		Str("reserva_id", a.payload.ReservaID).
		Str("tipo", a.payload.Tipo).
		Msg("alerta emitida")
}

// Pendientes returns the number of scheduled, not yet fired alerts.
func (s *AlertScanner) Pendientes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.programadas)
}

// Stop cancels every pending timer and waits for in-flight deliveries.
func (s *AlertScanner) Stop() {
	s.mu.Lock()
	for key, p := range s.programadas {
		if p.timer.Stop() {
			s.wg.Done()
		}
		delete(s.programadas, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
