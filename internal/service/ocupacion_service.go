package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/metrics"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxMotivoAnulacion = 150

// OcupacionService is the occupancy session state machine:
// reservada → pausada → reservada → finalizada | anulada.
type OcupacionService interface {
	Reservar(ctx context.Context, institucionID uuid.UUID, req dto.ReservarRequest) (*dto.ReservaResponse, error)
	Pausar(ctx context.Context, institucionID, visitaID uuid.UUID) (*dto.ReservaResponse, error)
	Reanudar(ctx context.Context, institucionID, visitaID uuid.UUID) (*dto.ReservaResponse, error)
	Finalizar(ctx context.Context, institucionID, habitacionID uuid.UUID) (*dto.ReservaResponse, error)
	Anular(ctx context.Context, institucionID, reservaID uuid.UUID, motivo string) (*dto.ReservaResponse, error)
	CambiarPromocion(ctx context.Context, institucionID, reservaID uuid.UUID, promocionID *uuid.UUID) (*dto.ReservaResponse, error)
	ExtenderTiempo(ctx context.Context, institucionID, reservaID uuid.UUID, horas, minutos int) (*dto.ReservaResponse, error)
	Estado(ctx context.Context, institucionID, reservaID uuid.UUID) (*dto.EstadoOcupacionResponse, error)
}

type ocupacionService struct {
	habitaciones repository.HabitacionRepository
	reservas     repository.ReservaRepository
	movimientos  repository.MovimientoRepository
	tarifas      TarifaService
	inventario   InventarioService
	clock        clock.Clock
	loc          *time.Location
}

func NewOcupacionService(
	habitaciones repository.HabitacionRepository,
	reservas repository.ReservaRepository,
	movimientos repository.MovimientoRepository,
	tarifas TarifaService,
	inventario InventarioService,
	clk clock.Clock,
	loc *time.Location,
) OcupacionService {
	return &ocupacionService{
		habitaciones: habitaciones,
		reservas:     reservas,
		movimientos:  movimientos,
		tarifas:      tarifas,
		inventario:   inventario,
		clock:        clk,
		loc:          loc,
	}
}

// ── Reservar ──────────────────────────────────────────────────────────────────
// One transaction: lock room, price it, create visita + movimiento + reserva,
// mark the room occupied.

func (s *ocupacionService) Reservar(ctx context.Context, institucionID uuid.UUID, req dto.ReservarRequest) (*dto.ReservaResponse, error) {
	habitacionID, err := uuid.Parse(req.HabitacionID)
	if err != nil {
		return nil, ErrHabitacionNoEncontrada
	}
	var promocionID *uuid.UUID
	if req.PromocionID != nil && *req.PromocionID != "" {
		id, err := uuid.Parse(*req.PromocionID)
		if err != nil {
			return nil, ErrPromocionInvalida
		}
		promocionID = &id
	}

	var reserva *model.Reserva
	err = runTx(ctx, s.habitaciones.DB(), func(tx *gorm.DB) error {
		hab, err := s.lockHabitacion(tx, institucionID, habitacionID)
		if err != nil {
			return err
		}
		if !hab.Disponible || hab.VisitaID != nil {
			return ErrHabitacionNoDisponible
		}
		if hab.Categoria == nil {
			return fmt.Errorf("habitacion %s sin categoria", hab.ID)
		}

		tarifa, err := s.tarifas.ResolverTx(tx, hab.Categoria, promocionID, req.Horas, req.Minutos, req.Personas)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		visita := &model.Visita{
			InstitucionID:      institucionID,
			Patente:            req.Patente,
			Telefono:           req.Telefono,
			Identificador:      req.Identificador,
			FechaPrimerIngreso: now,
		}
		if err := s.reservas.CreateVisitaTx(tx, visita); err != nil {
			return err
		}

		desc := "Ocupacion " + hab.Nombre
		mov := &model.Movimiento{
			InstitucionID:  institucionID,
			VisitaID:       visita.ID,
			HabitacionID:   hab.ID,
			TotalFacturado: tarifa.Importe,
			Descripcion:    &desc,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return err
		}

		reserva = &model.Reserva{
			InstitucionID:     institucionID,
			VisitaID:          visita.ID,
			HabitacionID:      hab.ID,
			MovimientoID:      &mov.ID,
			PromocionID:       tarifa.PromocionID,
			FechaInicio:       now,
			TotalHoras:        req.Horas,
			TotalMinutos:      req.Minutos,
			Personas:          req.Personas,
			Tarifa:            tarifa.PorHora,
			ImporteHabitacion: tarifa.Importe,
		}
		if err := s.reservas.CreateTx(tx, reserva); err != nil {
			return err
		}
		return s.habitaciones.OcuparTx(tx, hab.ID, visita.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.Ocupaciones.WithLabelValues("reservada").Inc()
	log.Info().
		Str("institucion_id", institucionID.String()).
		Str("habitacion_id", habitacionID.String()).
		Str("reserva_id", reserva.ID.String()).
		Str("importe", reserva.ImporteHabitacion.StringFixed(2)).
		Msg("habitacion reservada")
	return reservaToResponse(reserva), nil
}

// ── Pausar / Reanudar ─────────────────────────────────────────────────────────
// Pausar freezes the elapsed time as now - inicio - pausa previa. A second
// Pausar without Reanudar overwrites the stored value; it does not accumulate.

func (s *ocupacionService) Pausar(ctx context.Context, institucionID, visitaID uuid.UUID) (*dto.ReservaResponse, error) {
	var reserva *model.Reserva
	err := runTx(ctx, s.reservas.DB(), func(tx *gorm.DB) error {
		r, err := s.lockReservaActiva(tx, institucionID, visitaID)
		if err != nil {
			return err
		}
		transcurrido := s.clock.Now().Sub(r.FechaInicio) - r.Pausa()
		if transcurrido < 0 {
			transcurrido = 0
		}
		total := int(transcurrido / time.Minute)
		horas, minutos := total/60, total%60
		r.PausaHoras = &horas
		r.PausaMinutos = &minutos
		reserva = r
		return s.reservas.UpdateTx(tx, r)
	})
	if err != nil {
		return nil, err
	}
	metrics.Ocupaciones.WithLabelValues("pausada").Inc()
	log.Info().Str("reserva_id", reserva.ID.String()).
		Int("pausa_horas", *reserva.PausaHoras).Int("pausa_minutos", *reserva.PausaMinutos).
		Msg("ocupacion pausada")
	return reservaToResponse(reserva), nil
}

func (s *ocupacionService) Reanudar(ctx context.Context, institucionID, visitaID uuid.UUID) (*dto.ReservaResponse, error) {
	var reserva *model.Reserva
	err := runTx(ctx, s.reservas.DB(), func(tx *gorm.DB) error {
		r, err := s.lockReservaActiva(tx, institucionID, visitaID)
		if err != nil {
			return err
		}
		if !r.Pausada() {
			return ErrReservaNoPausada
		}
		r.PausaHoras = nil
		r.PausaMinutos = nil
		reserva = r
		return s.reservas.UpdateTx(tx, r)
	})
	if err != nil {
		return nil, err
	}
	metrics.Ocupaciones.WithLabelValues("reanudada").Inc()
	log.Info().Str("reserva_id", reserva.ID.String()).Msg("ocupacion reanudada")
	return reservaToResponse(reserva), nil
}

// ── Finalizar (checkout) ──────────────────────────────────────────────────────
// Sets fecha_fin and frees the room. Settlement is a separate call.

func (s *ocupacionService) Finalizar(ctx context.Context, institucionID, habitacionID uuid.UUID) (*dto.ReservaResponse, error) {
	var reserva *model.Reserva
	err := runTx(ctx, s.habitaciones.DB(), func(tx *gorm.DB) error {
		hab, err := s.lockHabitacion(tx, institucionID, habitacionID)
		if err != nil {
			return err
		}
		if hab.VisitaID == nil {
			return ErrHabitacionSinVisita
		}
		r, err := s.lockReservaActiva(tx, institucionID, *hab.VisitaID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		r.FechaFin = &now
		if err := s.reservas.UpdateTx(tx, r); err != nil {
			return err
		}
		reserva = r
		return s.habitaciones.LiberarTx(tx, hab.ID)
	})
	if err != nil {
		return nil, err
	}
	metrics.Ocupaciones.WithLabelValues("finalizada").Inc()
	log.Info().Str("habitacion_id", habitacionID.String()).Str("reserva_id", reserva.ID.String()).Msg("checkout realizado")
	return reservaToResponse(reserva), nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Atomic: every movement and consumption of the visit is annulled, every
// consumed unit goes back to its tier, the room and visit are released and an
// audit record is appended. Paid movements block the annulment.

func (s *ocupacionService) Anular(ctx context.Context, institucionID, reservaID uuid.UUID, motivo string) (*dto.ReservaResponse, error) {
	motivo = strings.TrimSpace(motivo)
	if utf8.RuneCountInString(motivo) > maxMotivoAnulacion {
		return nil, ErrMotivoInvalido
	}

	var reserva *model.Reserva
	err := runTx(ctx, s.reservas.DB(), func(tx *gorm.DB) error {
		r, err := s.lockReserva(tx, institucionID, reservaID)
		if err != nil {
			return err
		}
		if r.Terminal() {
			return ErrReservaTerminal
		}

		movs, err := s.movimientos.ListByVisitaForUpdateTx(tx, r.VisitaID)
		if err != nil {
			return err
		}
		for _, m := range movs {
			if !m.Anulado && m.PagoID != nil {
				return ErrMovimientoPagado.With("movimiento %s", m.ID)
			}
		}
		for _, m := range movs {
			if m.Anulado {
				continue
			}
			for _, c := range m.Consumos {
				if c.Anulado {
					continue
				}
				ref := c.ID
				d := Deduccion{DeHabitacion: c.CantidadHabitacion, DeGeneral: c.CantidadGeneral}
				if err := s.inventario.RestaurarTx(tx, institucionID, c.ArticuloID, m.HabitacionID, d, &ref); err != nil {
					return err
				}
			}
			if err := s.movimientos.AnularConsumosByMovimientoTx(tx, m.ID); err != nil {
				return err
			}
			if err := s.movimientos.AnularTx(tx, m.ID); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		r.FechaAnulacion = &now
		r.MotivoAnulacion = &motivo
		if err := s.reservas.UpdateTx(tx, r); err != nil {
			return err
		}

		hab, err := s.habitaciones.FindByIDForUpdateTx(tx, r.HabitacionID)
		if err != nil {
			return err
		}
		if hab.VisitaID != nil && *hab.VisitaID == r.VisitaID {
			if err := s.habitaciones.LiberarTx(tx, hab.ID); err != nil {
				return err
			}
		}
		if err := s.reservas.AnularVisitaTx(tx, r.VisitaID); err != nil {
			return err
		}

		reserva = r
		return s.reservas.CreateRegistroTx(tx, &model.Registro{
			InstitucionID: institucionID,
			ReservaID:     &r.ID,
			Tipo:          "anulacion_ocupacion",
			Contenido: fmt.Sprintf("Se anulo la ocupacion de la habitacion %s el %s. Motivo: %s",
				hab.Nombre, now.In(s.loc).Format("02/01/2006 15:04:05"), motivo),
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.Ocupaciones.WithLabelValues("anulada").Inc()
	log.Info().Str("reserva_id", reservaID.String()).Str("motivo", motivo).Msg("ocupacion anulada")
	return reservaToResponse(reserva), nil
}

// ── Re-tarificacion ───────────────────────────────────────────────────────────

func (s *ocupacionService) CambiarPromocion(ctx context.Context, institucionID, reservaID uuid.UUID, promocionID *uuid.UUID) (*dto.ReservaResponse, error) {
	return s.retarificar(ctx, institucionID, reservaID, func(r *model.Reserva) error {
		r.PromocionID = promocionID
		return nil
	})
}

func (s *ocupacionService) ExtenderTiempo(ctx context.Context, institucionID, reservaID uuid.UUID, horas, minutos int) (*dto.ReservaResponse, error) {
	if horas < 0 || minutos < 0 || horas*60+minutos == 0 {
		return nil, ErrDuracionInvalida
	}
	return s.retarificar(ctx, institucionID, reservaID, func(r *model.Reserva) error {
		total := r.TotalHoras*60 + r.TotalMinutos + horas*60 + minutos
		r.TotalHoras, r.TotalMinutos = total/60, total%60
		return nil
	})
}

// retarificar applies change to the reservation, re-prices it from its stored
// hours/minutes and moves the owning movement by the difference. When that
// movement is already paid the reservation is re-pointed to an open one.
func (s *ocupacionService) retarificar(ctx context.Context, institucionID, reservaID uuid.UUID, change func(*model.Reserva) error) (*dto.ReservaResponse, error) {
	var reserva *model.Reserva
	var delta decimal.Decimal
	err := runTx(ctx, s.reservas.DB(), func(tx *gorm.DB) error {
		r, err := s.lockReserva(tx, institucionID, reservaID)
		if err != nil {
			return err
		}
		if r.Terminal() {
			return ErrReservaTerminal
		}
		if r.MovimientoID == nil {
			return ErrMovimientoNoEncontrado
		}
		mov, err := s.movimientos.FindByIDForUpdateTx(tx, *r.MovimientoID)
		if err != nil {
			if isNotFound(err) {
				return ErrMovimientoNoEncontrado
			}
			return err
		}
		if mov.Anulado {
			return ErrMovimientoAnulado
		}
		if mov.PagoID != nil {
			// Paid mid-stay: the difference goes to the visit's open movement.
			mov, err = movimientoAbiertoTx(tx, s.movimientos, institucionID, r.VisitaID, r.HabitacionID)
			if err != nil {
				return err
			}
			r.MovimientoID = &mov.ID
		}

		hab, err := s.habitaciones.FindByIDForUpdateTx(tx, r.HabitacionID)
		if err != nil {
			return err
		}
		if err := change(r); err != nil {
			return err
		}
		tarifa, err := s.tarifas.ResolverTx(tx, hab.Categoria, r.PromocionID, r.TotalHoras, r.TotalMinutos, r.Personas)
		if err != nil {
			return err
		}

		delta = tarifa.Importe.Sub(r.ImporteHabitacion)
		if err := s.movimientos.UpdateTotalTx(tx, mov.ID, mov.TotalFacturado.Add(delta)); err != nil {
			return err
		}
		r.Tarifa = tarifa.PorHora
		r.ImporteHabitacion = tarifa.Importe
		reserva = r
		return s.reservas.UpdateTx(tx, r)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("reserva_id", reservaID.String()).Str("delta", delta.StringFixed(2)).Msg("reserva re-tarificada")
	return reservaToResponse(reserva), nil
}

// ── Estado ────────────────────────────────────────────────────────────────────

func (s *ocupacionService) Estado(ctx context.Context, institucionID, reservaID uuid.UUID) (*dto.EstadoOcupacionResponse, error) {
	r, err := s.reservas.FindByID(ctx, reservaID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}
	if r.InstitucionID != institucionID {
		return nil, ErrReservaNoEncontrada
	}

	var transcurrido time.Duration
	switch {
	case r.Pausada():
		transcurrido = r.Pausa()
	case r.FechaFin != nil:
		transcurrido = r.FechaFin.Sub(r.FechaInicio)
	case r.FechaAnulacion != nil:
		transcurrido = r.FechaAnulacion.Sub(r.FechaInicio)
	default:
		transcurrido = s.clock.Now().Sub(r.FechaInicio)
	}
	restante := r.Duracion() - transcurrido
	if restante < 0 || r.Terminal() {
		restante = 0
	}

	movs, err := s.movimientos.ListByVisita(ctx, r.VisitaID)
	if err != nil {
		return nil, err
	}
	pendiente := decimal.Zero
	for _, m := range movs {
		if !m.Anulado && m.PagoID == nil {
			pendiente = pendiente.Add(m.TotalFacturado)
		}
	}

	return &dto.EstadoOcupacionResponse{
		Reserva:              *reservaToResponse(r),
		MinutosTranscurridos: int(transcurrido / time.Minute),
		MinutosRestantes:     int(restante / time.Minute),
		Pausada:              r.Pausada(),
		TotalPendiente:       pendiente,
	}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *ocupacionService) lockHabitacion(tx *gorm.DB, institucionID, id uuid.UUID) (*model.Habitacion, error) {
	hab, err := s.habitaciones.FindByIDForUpdateTx(tx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHabitacionNoEncontrada
		}
		return nil, err
	}
	if hab.InstitucionID != institucionID || hab.Anulado {
		return nil, ErrHabitacionNoEncontrada
	}
	return hab, nil
}

func (s *ocupacionService) lockReserva(tx *gorm.DB, institucionID, id uuid.UUID) (*model.Reserva, error) {
	r, err := s.reservas.FindByIDForUpdateTx(tx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}
	if r.InstitucionID != institucionID {
		return nil, ErrReservaNoEncontrada
	}
	return r, nil
}

func (s *ocupacionService) lockReservaActiva(tx *gorm.DB, institucionID, visitaID uuid.UUID) (*model.Reserva, error) {
	r, err := s.reservas.FindActivaByVisitaForUpdateTx(tx, visitaID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}
	if r.InstitucionID != institucionID {
		return nil, ErrReservaNoEncontrada
	}
	return r, nil
}
