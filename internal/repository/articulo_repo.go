package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticuloRepository interface {
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Articulo, error)
	List(ctx context.Context, institucionID uuid.UUID) ([]model.Articulo, error)
	// ListActivosSinGeneralTx returns active articles with no general ledger entry.
	ListActivosSinGeneralTx(tx *gorm.DB, institucionID uuid.UUID) ([]model.Articulo, error)
}

type articuloRepo struct{ db *gorm.DB }

func NewArticuloRepository(db *gorm.DB) ArticuloRepository { return &articuloRepo{db: db} }

func (r *articuloRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Articulo, error) {
	var a model.Articulo
	err := tx.First(&a, "id = ?", id).Error
	return &a, err
}

func (r *articuloRepo) List(ctx context.Context, institucionID uuid.UUID) ([]model.Articulo, error) {
	var arts []model.Articulo
	err := r.db.WithContext(ctx).
		Where("institucion_id = ? AND anulado = ?", institucionID, false).
		Order("nombre ASC").
		Find(&arts).Error
	return arts, err
}

func (r *articuloRepo) ListActivosSinGeneralTx(tx *gorm.DB, institucionID uuid.UUID) ([]model.Articulo, error) {
	var arts []model.Articulo
	existentes := tx.Model(&model.InventarioGeneral{}).Select("articulo_id").Where("institucion_id = ?", institucionID)
	err := tx.Where("institucion_id = ? AND anulado = ?", institucionID, false).
		Where("id NOT IN (?)", existentes).
		Order("nombre ASC").
		Find(&arts).Error
	return arts, err
}
