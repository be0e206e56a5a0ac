package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/metrics"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deduccion is how a deducted quantity was split between the two tiers.
// Consumptions store it so a later Restaurar puts every unit back where it came from.
type Deduccion struct {
	DeHabitacion int
	DeGeneral    int
}

func (d Deduccion) Total() int { return d.DeHabitacion + d.DeGeneral }

// EsHabitacion reports whether room stock serviced any part of the draw.
func (d Deduccion) EsHabitacion() bool { return d.DeHabitacion > 0 }

// InventarioService is the two-tier inventory ledger.
type InventarioService interface {
	// DescontarTx takes cantidad from the room entry first and the remainder
	// from the general entry. It must run inside the caller's transaction so a
	// failure rolls back every tier it touched.
	DescontarTx(tx *gorm.DB, institucionID, articuloID, habitacionID uuid.UUID, cantidad int, referenciaID *uuid.UUID) (Deduccion, error)
	// RestaurarTx adds back exactly the split recorded by a previous deduction.
	RestaurarTx(tx *gorm.DB, institucionID, articuloID, habitacionID uuid.UUID, d Deduccion, referenciaID *uuid.UUID) error
	Descontar(ctx context.Context, institucionID, articuloID, habitacionID uuid.UUID, cantidad int) (Deduccion, error)
	Restaurar(ctx context.Context, institucionID, articuloID, habitacionID uuid.UUID, d Deduccion) error
	Reconciliar(ctx context.Context, institucionID uuid.UUID) (*dto.ReconciliacionResponse, error)
	ListarMovimientos(ctx context.Context, institucionID uuid.UUID, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error)
}

type inventarioService struct {
	repo      repository.InventarioRepository
	articulos repository.ArticuloRepository
}

func NewInventarioService(repo repository.InventarioRepository, articulos repository.ArticuloRepository) InventarioService {
	return &inventarioService{repo: repo, articulos: articulos}
}

func (s *inventarioService) DescontarTx(tx *gorm.DB, institucionID, articuloID, habitacionID uuid.UUID, cantidad int, referenciaID *uuid.UUID) (Deduccion, error) {
	var d Deduccion
	if cantidad <= 0 {
		return d, ErrCantidadInvalida
	}
	restante := cantidad

	inv, err := s.repo.FindHabitacionForUpdateTx(tx, habitacionID, articuloID)
	switch {
	case err == nil && inv.Cantidad > 0:
		d.DeHabitacion = min(inv.Cantidad, restante)
		if err := s.repo.UpdateCantidadHabitacionTx(tx, inv.ID, inv.Cantidad-d.DeHabitacion); err != nil {
			return d, err
		}
		hab := habitacionID
		if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoStock{
			InstitucionID: institucionID,
			ArticuloID:    articuloID,
			HabitacionID:  &hab,
			Nivel:         model.NivelHabitacion,
			Tipo:          "consumo",
			Cantidad:      -d.DeHabitacion,
			StockAnterior: inv.Cantidad,
			StockNuevo:    inv.Cantidad - d.DeHabitacion,
			Motivo:        "Consumo en habitacion",
			ReferenciaID:  referenciaID,
		}); err != nil {
			return d, err
		}
		restante -= d.DeHabitacion
	case err != nil && !isNotFound(err):
		return d, err
	}

	if restante == 0 {
		return d, nil
	}

	gen, err := s.repo.FindGeneralForUpdateTx(tx, institucionID, articuloID)
	if err != nil {
		if isNotFound(err) {
			metrics.StockInsuficiente.Inc()
			return Deduccion{}, ErrStockInsuficiente.With("sin inventario general para el articulo")
		}
		return Deduccion{}, err
	}
	if gen.Cantidad < restante {
		metrics.StockInsuficiente.Inc()
		return Deduccion{}, ErrStockInsuficiente.With("solicitado %d, disponible %d", cantidad, d.DeHabitacion+gen.Cantidad)
	}
	if err := s.repo.UpdateCantidadGeneralTx(tx, gen.ID, gen.Cantidad-restante); err != nil {
		return Deduccion{}, err
	}
	if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoStock{
		InstitucionID: institucionID,
		ArticuloID:    articuloID,
		Nivel:         model.NivelGeneral,
		Tipo:          "consumo",
		Cantidad:      -restante,
		StockAnterior: gen.Cantidad,
		StockNuevo:    gen.Cantidad - restante,
		Motivo:        "Consumo desde inventario general",
		ReferenciaID:  referenciaID,
	}); err != nil {
		return Deduccion{}, err
	}
	d.DeGeneral = restante
	return d, nil
}

func (s *inventarioService) RestaurarTx(tx *gorm.DB, institucionID, articuloID, habitacionID uuid.UUID, d Deduccion, referenciaID *uuid.UUID) error {
	if d.DeHabitacion > 0 {
		anterior := 0
		inv, err := s.repo.FindHabitacionForUpdateTx(tx, habitacionID, articuloID)
		switch {
		case err == nil:
			anterior = inv.Cantidad
			if err := s.repo.UpdateCantidadHabitacionTx(tx, inv.ID, inv.Cantidad+d.DeHabitacion); err != nil {
				return err
			}
		case isNotFound(err):
			if err := s.repo.CreateHabitacionTx(tx, &model.Inventario{
				InstitucionID: institucionID,
				HabitacionID:  habitacionID,
				ArticuloID:    articuloID,
				Cantidad:      d.DeHabitacion,
			}); err != nil {
				return err
			}
		default:
			return err
		}
		hab := habitacionID
		if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoStock{
			InstitucionID: institucionID,
			ArticuloID:    articuloID,
			HabitacionID:  &hab,
			Nivel:         model.NivelHabitacion,
			Tipo:          "restore_anulacion",
			Cantidad:      d.DeHabitacion,
			StockAnterior: anterior,
			StockNuevo:    anterior + d.DeHabitacion,
			Motivo:        "Anulacion de consumo",
			ReferenciaID:  referenciaID,
		}); err != nil {
			return err
		}
	}

	if d.DeGeneral > 0 {
		anterior := 0
		gen, err := s.repo.FindGeneralForUpdateTx(tx, institucionID, articuloID)
		switch {
		case err == nil:
			anterior = gen.Cantidad
			if err := s.repo.UpdateCantidadGeneralTx(tx, gen.ID, gen.Cantidad+d.DeGeneral); err != nil {
				return err
			}
		case isNotFound(err):
			if err := s.repo.CreateGeneralTx(tx, &model.InventarioGeneral{
				InstitucionID: institucionID,
				ArticuloID:    articuloID,
				Cantidad:      d.DeGeneral,
			}); err != nil {
				return err
			}
		default:
			return err
		}
		if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoStock{
			InstitucionID: institucionID,
			ArticuloID:    articuloID,
			Nivel:         model.NivelGeneral,
			Tipo:          "restore_anulacion",
			Cantidad:      d.DeGeneral,
			StockAnterior: anterior,
			StockNuevo:    anterior + d.DeGeneral,
			Motivo:        "Anulacion de consumo",
			ReferenciaID:  referenciaID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *inventarioService) Descontar(ctx context.Context, institucionID, articuloID, habitacionID uuid.UUID, cantidad int) (Deduccion, error) {
	var d Deduccion
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		d, err = s.DescontarTx(tx, institucionID, articuloID, habitacionID, cantidad, nil)
		return err
	})
	if err != nil {
		return Deduccion{}, err
	}
	return d, nil
}

func (s *inventarioService) Restaurar(ctx context.Context, institucionID, articuloID, habitacionID uuid.UUID, d Deduccion) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.RestaurarTx(tx, institucionID, articuloID, habitacionID, d, nil)
	})
}

// ── Reconciliar ───────────────────────────────────────────────────────────────
// Housekeeping: drop entries of annulled articles, seed missing general
// entries at zero. Safe to repeat; retried once on a write conflict.

func (s *inventarioService) Reconciliar(ctx context.Context, institucionID uuid.UUID) (*dto.ReconciliacionResponse, error) {
	resp, err := s.reconciliar(ctx, institucionID)
	if errors.Is(err, ErrConflicto) {
		log.Warn().Str("institucion_id", institucionID.String()).Msg("reconciliacion: conflicto, reintentando")
		resp, err = s.reconciliar(ctx, institucionID)
	}
	return resp, err
}

func (s *inventarioService) reconciliar(ctx context.Context, institucionID uuid.UUID) (*dto.ReconciliacionResponse, error) {
	resp := &dto.ReconciliacionResponse{}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		eliminadas, err := s.repo.DeleteHuerfanosTx(tx, institucionID)
		if err != nil {
			return err
		}
		resp.EntradasEliminadas = eliminadas

		faltantes, err := s.articulos.ListActivosSinGeneralTx(tx, institucionID)
		if err != nil {
			return err
		}
		for _, a := range faltantes {
			if err := s.repo.CreateGeneralTx(tx, &model.InventarioGeneral{
				InstitucionID: institucionID,
				ArticuloID:    a.ID,
				Cantidad:      0,
			}); err != nil {
				return fmt.Errorf("crear inventario general de %s: %w", a.Nombre, err)
			}
		}
		resp.EntradasCreadas = len(faltantes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("institucion_id", institucionID.String()).
		Int64("eliminadas", resp.EntradasEliminadas).
		Int("creadas", resp.EntradasCreadas).
		Msg("inventario reconciliado")
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, institucionID uuid.UUID, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	rf := repository.MovimientoStockFilter{
		InstitucionID: institucionID,
		Tipo:          filter.Tipo,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}
	if filter.ArticuloID != "" {
		id, err := uuid.Parse(filter.ArticuloID)
		if err != nil {
			return nil, ErrArticuloNoEncontrado
		}
		rf.ArticuloID = &id
	}
	if filter.HabitacionID != "" {
		id, err := uuid.Parse(filter.HabitacionID)
		if err != nil {
			return nil, ErrHabitacionNoEncontrada
		}
		rf.HabitacionID = &id
	}

	movs, total, err := s.repo.ListMovimientos(ctx, rf)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		data[i] = dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ArticuloID:    m.ArticuloID.String(),
			HabitacionID:  uuidPtrString(m.HabitacionID),
			Nivel:         m.Nivel,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  uuidPtrString(m.ReferenciaID),
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
	}
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.MovimientoStockListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
