package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovimientoStockFilter defines filters for listing ledger movements.
type MovimientoStockFilter struct {
	InstitucionID uuid.UUID
	ArticuloID    *uuid.UUID
	HabitacionID  *uuid.UUID
	Tipo          string
	Page          int
	Limit         int
}

// InventarioRepository is the storage of the two-tier ledger: room-scoped
// entries, the institution-wide general entries and the audit trail.
type InventarioRepository interface {
	FindHabitacionForUpdateTx(tx *gorm.DB, habitacionID, articuloID uuid.UUID) (*model.Inventario, error)
	FindGeneralForUpdateTx(tx *gorm.DB, institucionID, articuloID uuid.UUID) (*model.InventarioGeneral, error)
	CreateHabitacionTx(tx *gorm.DB, inv *model.Inventario) error
	CreateGeneralTx(tx *gorm.DB, inv *model.InventarioGeneral) error
	UpdateCantidadHabitacionTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	UpdateCantidadGeneralTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	// DeleteHuerfanosTx removes entries of both tiers whose article is annulled or missing.
	DeleteHuerfanosTx(tx *gorm.DB, institucionID uuid.UUID) (int64, error)

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListMovimientos(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error)
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) FindHabitacionForUpdateTx(tx *gorm.DB, habitacionID, articuloID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("habitacion_id = ? AND articulo_id = ?", habitacionID, articuloID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) FindGeneralForUpdateTx(tx *gorm.DB, institucionID, articuloID uuid.UUID) (*model.InventarioGeneral, error) {
	var inv model.InventarioGeneral
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("institucion_id = ? AND articulo_id = ?", institucionID, articuloID).
		First(&inv).Error
	return &inv, err
}

func (r *inventarioRepo) CreateHabitacionTx(tx *gorm.DB, inv *model.Inventario) error {
	return tx.Create(inv).Error
}

func (r *inventarioRepo) CreateGeneralTx(tx *gorm.DB, inv *model.InventarioGeneral) error {
	return tx.Create(inv).Error
}

func (r *inventarioRepo) UpdateCantidadHabitacionTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Inventario{}).Where("id = ?", id).Update("cantidad", cantidad).Error
}

func (r *inventarioRepo) UpdateCantidadGeneralTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.InventarioGeneral{}).Where("id = ?", id).Update("cantidad", cantidad).Error
}

func (r *inventarioRepo) DeleteHuerfanosTx(tx *gorm.DB, institucionID uuid.UUID) (int64, error) {
	activos := tx.Model(&model.Articulo{}).Select("id").
		Where("institucion_id = ? AND anulado = ?", institucionID, false)

	res := tx.Where("institucion_id = ? AND articulo_id NOT IN (?)", institucionID, activos).
		Delete(&model.Inventario{})
	if res.Error != nil {
		return 0, res.Error
	}
	eliminadas := res.RowsAffected

	res = tx.Where("institucion_id = ? AND articulo_id NOT IN (?)", institucionID, activos).
		Delete(&model.InventarioGeneral{})
	if res.Error != nil {
		return 0, res.Error
	}
	return eliminadas + res.RowsAffected, nil
}

func (r *inventarioRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *inventarioRepo) ListMovimientos(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).
		Where("institucion_id = ?", filter.InstitucionID)
	if filter.ArticuloID != nil {
		q = q.Where("articulo_id = ?", *filter.ArticuloID)
	}
	if filter.HabitacionID != nil {
		q = q.Where("habitacion_id = ?", *filter.HabitacionID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}
