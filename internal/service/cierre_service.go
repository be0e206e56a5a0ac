package service

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
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

// CierreService manages cash register closures. One cierre per institution
// is open at any time; Cerrar sweeps every unswept payment into it and opens
// the next one.
type CierreService interface {
	Cerrar(ctx context.Context, institucionID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CerrarCajaResponse, error)
	Actual(ctx context.Context, institucionID uuid.UUID) (*dto.CierreActualResponse, error)
	Obtener(ctx context.Context, institucionID, id uuid.UUID) (*dto.CierreResponse, error)
	Listar(ctx context.Context, institucionID uuid.UUID, filter dto.CierreFilter) (*dto.CierreListResponse, error)
}

type cierreService struct {
	repo       repository.CierreRepository
	pagos      repository.PagoRepository
	clock      clock.Clock
	dispatcher *worker.Dispatcher
}

func NewCierreService(
	repo repository.CierreRepository,
	pagos repository.PagoRepository,
	clk clock.Clock,
	dispatcher *worker.Dispatcher,
) CierreService {
	return &cierreService{repo: repo, pagos: pagos, clock: clk, dispatcher: dispatcher}
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Locks the open cierre (creating it when missing) and the unswept payments,
// so a payment committed mid-close is either swept now or left for the next
// cierre, never counted twice.

func (s *cierreService) Cerrar(ctx context.Context, institucionID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CerrarCajaResponse, error) {
	if req.MontoInicialSiguiente.IsNegative() {
		return nil, ErrMontoInvalido
	}

	var cerrado, nuevo *model.Cierre
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := s.clock.Now()

		c, err := s.repo.FindAbiertoForUpdateTx(tx, institucionID)
		switch {
		case isNotFound(err):
			c = &model.Cierre{
				InstitucionID:  institucionID,
				MontoInicial:   decimal.Zero,
				TotalEfectivo:  decimal.Zero,
				TotalTarjeta:   decimal.Zero,
				TotalBilletera: decimal.Zero,
				TotalDescuento: decimal.Zero,
				Estado:         model.CierreAbierto,
				FechaApertura:  now,
			}
			if err := s.repo.CreateTx(tx, c); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		pagos, err := s.pagos.ListSinCierreForUpdateTx(tx, institucionID)
		if err != nil {
			return err
		}
		if len(pagos) == 0 {
			return ErrNadaParaCerrar
		}

		ids := make([]uuid.UUID, len(pagos))
		for i, p := range pagos {
			ids[i] = p.ID
			c.TotalEfectivo = c.TotalEfectivo.Add(p.MontoEfectivo)
			c.TotalTarjeta = c.TotalTarjeta.Add(p.MontoTarjeta)
			c.TotalBilletera = c.TotalBilletera.Add(p.MontoBilletera)
			c.TotalDescuento = c.TotalDescuento.Add(p.MontoDescuento)
		}
		if err := s.pagos.AsignarCierreTx(tx, ids, c.ID); err != nil {
			return err
		}

		c.Estado = model.CierreCerrado
		c.FechaCierre = &now
		c.Observacion = req.Observacion
		if err := s.repo.UpdateTx(tx, c); err != nil {
			return err
		}
		c.Pagos = pagos

		// The previous row is already closed, so the one-open-per-institution
		// index accepts the new one.
		n := &model.Cierre{
			InstitucionID:  institucionID,
			MontoInicial:   req.MontoInicialSiguiente,
			TotalEfectivo:  decimal.Zero,
			TotalTarjeta:   decimal.Zero,
			TotalBilletera: decimal.Zero,
			TotalDescuento: decimal.Zero,
			Estado:         model.CierreAbierto,
			FechaApertura:  now,
		}
		if err := s.repo.CreateTx(tx, n); err != nil {
			return err
		}
		cerrado, nuevo = c, n
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Cierres.Inc()
	log.Info().
		Str("institucion_id", institucionID.String()).
		Str("cierre_id", cerrado.ID.String()).
		Int("pagos", len(cerrado.Pagos)).
		Str("total", cerrado.Total().StringFixed(2)).
		Msg("caja cerrada")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReporteCierre(ctx, worker.ReporteCierrePayload{
			CierreID:      cerrado.ID.String(),
			InstitucionID: institucionID.String(),
		}); err != nil {
			log.Warn().Err(err).Str("cierre_id", cerrado.ID.String()).Msg("no se pudo encolar el reporte de cierre")
		}
	}

	return &dto.CerrarCajaResponse{
		Cerrado: *cierreToResponse(cerrado),
		Nuevo:   *cierreToResponse(nuevo),
	}, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cierreService) Actual(ctx context.Context, institucionID uuid.UUID) (*dto.CierreActualResponse, error) {
	resp := &dto.CierreActualResponse{}
	c, err := s.repo.FindAbierto(ctx, institucionID)
	switch {
	case err == nil:
		resp.Cierre = cierreToResponse(c)
	case !isNotFound(err):
		return nil, err
	}

	pagos, err := s.pagos.ListSinCierre(ctx, institucionID)
	if err != nil {
		return nil, err
	}
	resp.PagosPendientes = len(pagos)
	resp.Preliminar = montosDe(pagos)
	return resp, nil
}

func (s *cierreService) Obtener(ctx context.Context, institucionID, id uuid.UUID) (*dto.CierreResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCierreNoEncontrado
		}
		return nil, err
	}
	if c.InstitucionID != institucionID {
		return nil, ErrCierreNoEncontrado
	}
	return cierreToResponse(c), nil
}

func (s *cierreService) Listar(ctx context.Context, institucionID uuid.UUID, filter dto.CierreFilter) (*dto.CierreListResponse, error) {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cierres, total, err := s.repo.List(ctx, institucionID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CierreResponse, len(cierres))
	for i := range cierres {
		data[i] = *cierreToResponse(&cierres[i])
	}
	return &dto.CierreListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
