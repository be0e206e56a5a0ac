package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CierreRepository interface {
	CreateTx(tx *gorm.DB, c *model.Cierre) error
	UpdateTx(tx *gorm.DB, c *model.Cierre) error
	FindAbierto(ctx context.Context, institucionID uuid.UUID) (*model.Cierre, error)
	FindAbiertoForUpdateTx(tx *gorm.DB, institucionID uuid.UUID) (*model.Cierre, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cierre, error)
	List(ctx context.Context, institucionID uuid.UUID, page, limit int) ([]model.Cierre, int64, error)
	DB() *gorm.DB
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) DB() *gorm.DB { return r.db }

func (r *cierreRepo) CreateTx(tx *gorm.DB, c *model.Cierre) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *cierreRepo) UpdateTx(tx *gorm.DB, c *model.Cierre) error {
	return tx.Omit(clause.Associations).Save(c).Error
}

func (r *cierreRepo) FindAbierto(ctx context.Context, institucionID uuid.UUID) (*model.Cierre, error) {
	var c model.Cierre
	err := r.db.WithContext(ctx).
		Where("institucion_id = ? AND estado = ?", institucionID, model.CierreAbierto).
		First(&c).Error
	return &c, err
}

func (r *cierreRepo) FindAbiertoForUpdateTx(tx *gorm.DB, institucionID uuid.UUID) (*model.Cierre, error) {
	var c model.Cierre
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("institucion_id = ? AND estado = ?", institucionID, model.CierreAbierto).
		First(&c).Error
	return &c, err
}

func (r *cierreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cierre, error) {
	var c model.Cierre
	err := r.db.WithContext(ctx).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cierreRepo) List(ctx context.Context, institucionID uuid.UUID, page, limit int) ([]model.Cierre, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cierre{}).
		Where("institucion_id = ? AND estado = ?", institucionID, model.CierreCerrado)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var cierres []model.Cierre
	err := q.Order("fecha_cierre DESC").Offset((page - 1) * limit).Limit(limit).Find(&cierres).Error
	return cierres, total, err
}
