package service

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PagoService settles the outstanding movements of a visit into one payment.
type PagoService interface {
	Pagar(ctx context.Context, institucionID, visitaID uuid.UUID, req dto.PagarRequest) (*dto.PagoResponse, error)
}

type pagoService struct {
	pagos       repository.PagoRepository
	movimientos repository.MovimientoRepository
	reservas    repository.ReservaRepository
	clock       clock.Clock
}

func NewPagoService(
	pagos repository.PagoRepository,
	movimientos repository.MovimientoRepository,
	reservas repository.ReservaRepository,
	clk clock.Clock,
) PagoService {
	return &pagoService{pagos: pagos, movimientos: movimientos, reservas: reservas, clock: clk}
}

var cien = decimal.NewFromInt(100)

// ── Pagar ─────────────────────────────────────────────────────────────────────
// Collects every unpaid movement of the visit, records the amounts per channel
// and links the movements to the new payment, all in one transaction. Amounts
// are recorded as declared; they are not required to match the billed total.

func (s *pagoService) Pagar(ctx context.Context, institucionID, visitaID uuid.UUID, req dto.PagarRequest) (*dto.PagoResponse, error) {
	for _, m := range []decimal.Decimal{req.MontoEfectivo, req.MontoTarjeta, req.MontoBilletera, req.MontoDescuento} {
		if m.IsNegative() {
			return nil, ErrMontoInvalido
		}
	}
	if req.Recargo != nil && (req.Recargo.Monto.IsNegative() || req.Recargo.Porcentaje.IsNegative()) {
		return nil, ErrMontoInvalido
	}

	var pago *model.Pago
	err := runTx(ctx, s.movimientos.DB(), func(tx *gorm.DB) error {
		visita, err := s.reservas.FindVisitaByIDTx(tx, visitaID)
		if err != nil {
			if isNotFound(err) {
				return ErrVisitaNoEncontrada
			}
			return err
		}
		if visita.InstitucionID != institucionID {
			return ErrVisitaNoEncontrada
		}

		movs, err := s.movimientos.ListPendientesByVisitaForUpdateTx(tx, visitaID)
		if err != nil {
			return err
		}
		if len(movs) == 0 {
			return ErrNadaParaPagar
		}

		medioID, err := uuid.Parse(req.MedioPagoID)
		if err != nil {
			return ErrMedioPagoInvalido
		}
		medio, err := s.pagos.FindMedioPagoTx(tx, medioID)
		if err != nil {
			if isNotFound(err) {
				return ErrMedioPagoInvalido
			}
			return err
		}
		if medio.InstitucionID != institucionID || !medio.Activo {
			return ErrMedioPagoInvalido
		}

		facturado := decimal.Zero
		ids := make([]uuid.UUID, len(movs))
		for i, m := range movs {
			facturado = facturado.Add(m.TotalFacturado)
			ids[i] = m.ID
		}

		pago = &model.Pago{
			InstitucionID:  institucionID,
			VisitaID:       visitaID,
			MedioPagoID:    medio.ID,
			MontoEfectivo:  req.MontoEfectivo,
			MontoTarjeta:   req.MontoTarjeta,
			MontoBilletera: req.MontoBilletera,
			MontoDescuento: req.MontoDescuento,
			MontoFacturado: facturado,
			Observacion:    req.Observacion,
			Fecha:          s.clock.Now(),
		}
		if req.Recargo != nil {
			monto := req.Recargo.Monto
			if monto.IsZero() && req.Recargo.Porcentaje.IsPositive() {
				monto = facturado.Sub(req.MontoDescuento).Mul(req.Recargo.Porcentaje).Div(cien).Round(2)
			}
			pago.Recargos = []model.Recargo{{
				Descripcion: req.Recargo.Descripcion,
				Porcentaje:  req.Recargo.Porcentaje,
				Monto:       monto,
			}}
		}
		if err := s.pagos.CreateTx(tx, pago); err != nil {
			return err
		}
		if err := s.movimientos.AsignarPagoTx(tx, ids, pago.ID); err != nil {
			return err
		}
		pago.Movimientos = movs
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("institucion_id", institucionID.String()).
		Str("visita_id", visitaID.String()).
		Str("pago_id", pago.ID.String()).
		Int("movimientos", len(pago.Movimientos)).
		Str("facturado", pago.MontoFacturado.StringFixed(2)).
		Msg("pago registrado")
	resp := pagoToResponse(pago)
	return &resp, nil
}
