package repository

import (
	"context"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitacionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Habitacion, error)
	// FindByIDForUpdateTx locks the room row for the rest of the transaction.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Habitacion, error)
	OcuparTx(tx *gorm.DB, id, visitaID uuid.UUID) error
	LiberarTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, institucionID uuid.UUID) ([]model.Habitacion, error)
	DB() *gorm.DB
}

type habitacionRepo struct{ db *gorm.DB }

func NewHabitacionRepository(db *gorm.DB) HabitacionRepository { return &habitacionRepo{db: db} }

func (r *habitacionRepo) DB() *gorm.DB { return r.db }

func (r *habitacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Habitacion, error) {
	var h model.Habitacion
	err := r.db.WithContext(ctx).Preload("Categoria").First(&h, "id = ?", id).Error
	return &h, err
}

func (r *habitacionRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Habitacion, error) {
	var h model.Habitacion
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Categoria").
		First(&h, "id = ?", id).Error
	return &h, err
}

func (r *habitacionRepo) OcuparTx(tx *gorm.DB, id, visitaID uuid.UUID) error {
	return tx.Model(&model.Habitacion{}).Where("id = ?", id).
		Updates(map[string]interface{}{"disponible": false, "visita_id": visitaID}).Error
}

func (r *habitacionRepo) LiberarTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Habitacion{}).Where("id = ?", id).
		Updates(map[string]interface{}{"disponible": true, "visita_id": nil}).Error
}

func (r *habitacionRepo) List(ctx context.Context, institucionID uuid.UUID) ([]model.Habitacion, error) {
	var habs []model.Habitacion
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("institucion_id = ? AND anulado = ?", institucionID, false).
		Order("nombre ASC").
		Find(&habs).Error
	return habs, err
}
