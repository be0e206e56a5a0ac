package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovimientoRepository persists billable movements and their consumption lines.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Movimiento, error)
	ListByVisita(ctx context.Context, visitaID uuid.UUID) ([]model.Movimiento, error)
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	AnularTx(tx *gorm.DB, id uuid.UUID) error
	ListByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) ([]model.Movimiento, error)
	ListPendientesByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) ([]model.Movimiento, error)
	AsignarPagoTx(tx *gorm.DB, ids []uuid.UUID, pagoID uuid.UUID) error

	CreateConsumoTx(tx *gorm.DB, c *model.Consumo) error
	FindConsumoByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Consumo, error)
	AnularConsumoTx(tx *gorm.DB, id uuid.UUID) error
	AnularConsumosByMovimientoTx(tx *gorm.DB, movimientoID uuid.UUID) error
	DB() *gorm.DB
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return tx.Omit(clause.Associations).Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := r.db.WithContext(ctx).Preload("Consumos.Articulo").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) ListByVisita(ctx context.Context, visitaID uuid.UUID) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := r.db.WithContext(ctx).Preload("Consumos").
		Where("visita_id = ?", visitaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Movimiento{}).Where("id = ?", id).Update("total_facturado", total).Error
}

func (r *movimientoRepo) AnularTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Movimiento{}).Where("id = ?", id).Update("anulado", true).Error
}

func (r *movimientoRepo) ListByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Consumos").
		Where("visita_id = ?", visitaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

// ListPendientesByVisitaForUpdateTx returns the unpaid, non-cancelled movements of a visit.
func (r *movimientoRepo) ListPendientesByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("visita_id = ? AND pago_id IS NULL AND anulado = ?", visitaID, false).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) AsignarPagoTx(tx *gorm.DB, ids []uuid.UUID, pagoID uuid.UUID) error {
	return tx.Model(&model.Movimiento{}).Where("id IN ?", ids).Update("pago_id", pagoID).Error
}

func (r *movimientoRepo) CreateConsumoTx(tx *gorm.DB, c *model.Consumo) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *movimientoRepo) FindConsumoByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Consumo, error) {
	var c model.Consumo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *movimientoRepo) AnularConsumoTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Consumo{}).Where("id = ?", id).Update("anulado", true).Error
}

func (r *movimientoRepo) AnularConsumosByMovimientoTx(tx *gorm.DB, movimientoID uuid.UUID) error {
	return tx.Model(&model.Consumo{}).Where("movimiento_id = ?", movimientoID).Update("anulado", true).Error
}
