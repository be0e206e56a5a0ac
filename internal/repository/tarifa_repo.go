package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TarifaRepository reads the pricing catalog: categories and promotions.
type TarifaRepository interface {
	FindCategoria(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	FindPromocionTx(tx *gorm.DB, id uuid.UUID) (*model.Promocion, error)
	ListPromociones(ctx context.Context, institucionID, categoriaID uuid.UUID) ([]model.Promocion, error)
}

type tarifaRepo struct{ db *gorm.DB }

func NewTarifaRepository(db *gorm.DB) TarifaRepository { return &tarifaRepo{db: db} }

func (r *tarifaRepo) FindCategoria(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *tarifaRepo) FindPromocionTx(tx *gorm.DB, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *tarifaRepo) ListPromociones(ctx context.Context, institucionID, categoriaID uuid.UUID) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).
		Where("institucion_id = ? AND categoria_id = ? AND activo = ?", institucionID, categoriaID, true).
		Order("nombre ASC").
		Find(&promos).Error
	return promos, err
}
