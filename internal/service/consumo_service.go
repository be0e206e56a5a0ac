package service

import (
	"context"
	"errors"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/metrics"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumoService records consumption against a movement, drawing stock from
// the inventory ledger.
type ConsumoService interface {
	Registrar(ctx context.Context, institucionID, movimientoID uuid.UUID, req dto.RegistrarConsumoRequest) (*dto.MovimientoResponse, error)
	Anular(ctx context.Context, institucionID, consumoID uuid.UUID) (*dto.MovimientoResponse, error)
	ObtenerMovimiento(ctx context.Context, institucionID, movimientoID uuid.UUID) (*dto.MovimientoResponse, error)
}

type consumoService struct {
	movimientos repository.MovimientoRepository
	reservas    repository.ReservaRepository
	articulos   repository.ArticuloRepository
	inventario  InventarioService
	dispatcher  *worker.Dispatcher
}

func NewConsumoService(
	movimientos repository.MovimientoRepository,
	reservas repository.ReservaRepository,
	articulos repository.ArticuloRepository,
	inventario InventarioService,
	dispatcher *worker.Dispatcher,
) ConsumoService {
	return &consumoService{
		movimientos: movimientos,
		reservas:    reservas,
		articulos:   articulos,
		inventario:  inventario,
		dispatcher:  dispatcher,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// All items of one call share a transaction: the first failing item rolls back
// every deduction and line written before it. A movement settled while the stay
// is still running redirects the items to the visit's open movement.

func (s *consumoService) Registrar(ctx context.Context, institucionID, movimientoID uuid.UUID, req dto.RegistrarConsumoRequest) (*dto.MovimientoResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrCantidadInvalida
	}

	var mov *model.Movimiento
	err := runTx(ctx, s.movimientos.DB(), func(tx *gorm.DB) error {
		m, err := s.movimientoParaConsumo(tx, institucionID, movimientoID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range req.Items {
			if item.Cantidad <= 0 {
				return ErrCantidadInvalida
			}
			articuloID, err := uuid.Parse(item.ArticuloID)
			if err != nil {
				return ErrArticuloNoEncontrado
			}
			art, err := s.articulos.FindByIDTx(tx, articuloID)
			if err != nil {
				if isNotFound(err) {
					return ErrArticuloNoEncontrado.With("%s", item.ArticuloID)
				}
				return err
			}
			if art.InstitucionID != institucionID || art.Anulado {
				return ErrArticuloNoEncontrado.With("%s", item.ArticuloID)
			}
			if !art.Precio.IsPositive() {
				return ErrArticuloSinPrecio.With("%s", art.Nombre)
			}

			consumo := &model.Consumo{
				ID:             uuid.New(),
				MovimientoID:   m.ID,
				ArticuloID:     art.ID,
				Cantidad:       item.Cantidad,
				PrecioUnitario: art.Precio,
				Subtotal:       art.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))),
			}
			d, err := s.inventario.DescontarTx(tx, institucionID, art.ID, m.HabitacionID, item.Cantidad, &consumo.ID)
			if err != nil {
				return err
			}
			consumo.CantidadHabitacion = d.DeHabitacion
			consumo.CantidadGeneral = d.DeGeneral
			consumo.EsHabitacion = d.EsHabitacion()
			if err := s.movimientos.CreateConsumoTx(tx, consumo); err != nil {
				return err
			}
			total = total.Add(consumo.Subtotal)
			m.Consumos = append(m.Consumos, *consumo)
		}

		m.TotalFacturado = m.TotalFacturado.Add(total)
		mov = m
		return s.movimientos.UpdateTotalTx(tx, m.ID, m.TotalFacturado)
	})
	if err != nil {
		return nil, err
	}

	metrics.Consumos.Add(float64(len(req.Items)))
	log.Info().
		Str("institucion_id", institucionID.String()).
		Str("movimiento_id", mov.ID.String()).
		Int("items", len(req.Items)).
		Str("total_facturado", mov.TotalFacturado.StringFixed(2)).
		Msg("consumo registrado")

	// Fire-and-forget: the order is committed regardless of notification delivery.
	if s.dispatcher != nil {
		payload := worker.NotificacionPayload{
			InstitucionID: institucionID.String(),
			Tipo:          worker.NotificacionNuevoPedido,
			HabitacionID:  mov.HabitacionID.String(),
			Mensaje:       "Nuevo pedido de consumo",
		}
		if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			log.Warn().Err(err).Str("movimiento_id", mov.ID.String()).Msg("no se pudo encolar la notificacion de pedido")
		}
	}
	return movimientoToResponse(mov), nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Reverses one line: restores its exact tier split and subtracts its subtotal.

func (s *consumoService) Anular(ctx context.Context, institucionID, consumoID uuid.UUID) (*dto.MovimientoResponse, error) {
	var movimientoID uuid.UUID
	err := runTx(ctx, s.movimientos.DB(), func(tx *gorm.DB) error {
		c, err := s.movimientos.FindConsumoByIDForUpdateTx(tx, consumoID)
		if err != nil {
			if isNotFound(err) {
				return ErrConsumoNoEncontrado
			}
			return err
		}
		if c.Anulado {
			return ErrConsumoAnulado
		}
		m, err := s.lockMovimientoAbierto(tx, institucionID, c.MovimientoID)
		if err != nil {
			return err
		}

		d := Deduccion{DeHabitacion: c.CantidadHabitacion, DeGeneral: c.CantidadGeneral}
		if err := s.inventario.RestaurarTx(tx, institucionID, c.ArticuloID, m.HabitacionID, d, &c.ID); err != nil {
			return err
		}
		if err := s.movimientos.AnularConsumoTx(tx, c.ID); err != nil {
			return err
		}
		movimientoID = m.ID
		return s.movimientos.UpdateTotalTx(tx, m.ID, m.TotalFacturado.Sub(c.Subtotal))
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("consumo_id", consumoID.String()).Str("movimiento_id", movimientoID.String()).Msg("consumo anulado")
	return s.ObtenerMovimiento(ctx, institucionID, movimientoID)
}

func (s *consumoService) ObtenerMovimiento(ctx context.Context, institucionID, movimientoID uuid.UUID) (*dto.MovimientoResponse, error) {
	m, err := s.movimientos.FindByID(ctx, movimientoID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMovimientoNoEncontrado
		}
		return nil, err
	}
	if m.InstitucionID != institucionID {
		return nil, ErrMovimientoNoEncontrado
	}
	return movimientoToResponse(m), nil
}

func (s *consumoService) lockMovimientoAbierto(tx *gorm.DB, institucionID, id uuid.UUID) (*model.Movimiento, error) {
	m, err := s.movimientos.FindByIDForUpdateTx(tx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMovimientoNoEncontrado
		}
		return nil, err
	}
	if m.InstitucionID != institucionID {
		return nil, ErrMovimientoNoEncontrado
	}
	if m.Anulado {
		return nil, ErrMovimientoAnulado
	}
	if m.PagoID != nil {
		return nil, ErrMovimientoPagado
	}
	return m, nil
}

// movimientoParaConsumo locks the target movement. When it is already paid but
// its visit still has an active reservation, the visit's open movement is used
// instead.
func (s *consumoService) movimientoParaConsumo(tx *gorm.DB, institucionID, id uuid.UUID) (*model.Movimiento, error) {
	m, err := s.lockMovimientoAbierto(tx, institucionID, id)
	if !errors.Is(err, ErrMovimientoPagado) {
		return m, err
	}
	pagado, err := s.movimientos.FindByIDForUpdateTx(tx, id)
	if err != nil {
		return nil, err
	}
	activa, err := s.reservas.ExisteActivaByVisitaTx(tx, pagado.VisitaID)
	if err != nil {
		return nil, err
	}
	if !activa {
		return nil, ErrMovimientoPagado
	}
	return movimientoAbiertoTx(tx, s.movimientos, institucionID, pagado.VisitaID, pagado.HabitacionID)
}

// movimientoAbiertoTx returns the latest unpaid movement of the visit, opening
// an empty one for the room when every movement is settled.
func movimientoAbiertoTx(tx *gorm.DB, movimientos repository.MovimientoRepository, institucionID, visitaID, habitacionID uuid.UUID) (*model.Movimiento, error) {
	pendientes, err := movimientos.ListPendientesByVisitaForUpdateTx(tx, visitaID)
	if err != nil {
		return nil, err
	}
	if n := len(pendientes); n > 0 {
		return &pendientes[n-1], nil
	}
	desc := "Cargos posteriores al pago"
	m := &model.Movimiento{
		InstitucionID:  institucionID,
		VisitaID:       visitaID,
		HabitacionID:   habitacionID,
		TotalFacturado: decimal.Zero,
		Descripcion:    &desc,
	}
	if err := movimientos.CreateTx(tx, m); err != nil {
		return nil, err
	}
	log.Info().Str("visita_id", visitaID.String()).Str("movimiento_id", m.ID.String()).Msg("movimiento abierto tras pago")
	return m, nil
}
