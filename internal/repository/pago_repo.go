package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PagoRepository interface {
	FindMedioPagoTx(tx *gorm.DB, id uuid.UUID) (*model.MedioPago, error)
	ListMediosPago(ctx context.Context, institucionID uuid.UUID) ([]model.MedioPago, error)
	// CreateTx inserts the payment together with its surcharge lines.
	CreateTx(tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	// ListSinCierreForUpdateTx locks the payments not yet swept into a closure.
	ListSinCierreForUpdateTx(tx *gorm.DB, institucionID uuid.UUID) ([]model.Pago, error)
	ListSinCierre(ctx context.Context, institucionID uuid.UUID) ([]model.Pago, error)
	AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) FindMedioPagoTx(tx *gorm.DB, id uuid.UUID) (*model.MedioPago, error) {
	var m model.MedioPago
	err := tx.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *pagoRepo) ListMediosPago(ctx context.Context, institucionID uuid.UUID) ([]model.MedioPago, error) {
	var medios []model.MedioPago
	err := r.db.WithContext(ctx).
		Where("institucion_id = ? AND activo = ?", institucionID, true).
		Order("nombre ASC").
		Find(&medios).Error
	return medios, err
}

func (r *pagoRepo) CreateTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Omit("Movimientos").Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Recargos").Preload("Movimientos").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) ListSinCierreForUpdateTx(tx *gorm.DB, institucionID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("institucion_id = ? AND cierre_id IS NULL", institucionID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) ListSinCierre(ctx context.Context, institucionID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Where("institucion_id = ? AND cierre_id IS NULL", institucionID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) error {
	return tx.Model(&model.Pago{}).Where("id IN ?", ids).Update("cierre_id", cierreID).Error
}
