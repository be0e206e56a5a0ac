package repository

import (
	"context"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservaRepository persists visits, reservations and their audit records.
// A reservation is active while both fecha_fin and fecha_anulacion are NULL.
type ReservaRepository interface {
	CreateVisitaTx(tx *gorm.DB, v *model.Visita) error
	FindVisitaByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Visita, error)
	AnularVisitaTx(tx *gorm.DB, id uuid.UUID) error

	CreateTx(tx *gorm.DB, r *model.Reserva) error
	UpdateTx(tx *gorm.DB, r *model.Reserva) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reserva, error)
	FindActivaByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) (*model.Reserva, error)
	ExisteActivaByVisitaTx(tx *gorm.DB, visitaID uuid.UUID) (bool, error)
	ListByHabitacionEnRango(ctx context.Context, habitacionID uuid.UUID, desde, hasta time.Time) ([]model.Reserva, error)
	ListActivas(ctx context.Context) ([]model.Reserva, error)

	CreateRegistroTx(tx *gorm.DB, reg *model.Registro) error
	DB() *gorm.DB
}

type reservaRepo struct{ db *gorm.DB }

func NewReservaRepository(db *gorm.DB) ReservaRepository { return &reservaRepo{db: db} }

func (r *reservaRepo) DB() *gorm.DB { return r.db }

func (r *reservaRepo) CreateVisitaTx(tx *gorm.DB, v *model.Visita) error {
	return tx.Create(v).Error
}

func (r *reservaRepo) FindVisitaByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Visita, error) {
	var v model.Visita
	err := tx.First(&v, "id = ?", id).Error
	return &v, err
}

func (r *reservaRepo) AnularVisitaTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Visita{}).Where("id = ?", id).Update("anulado", true).Error
}

func (r *reservaRepo) CreateTx(tx *gorm.DB, res *model.Reserva) error {
	return tx.Omit(clause.Associations).Create(res).Error
}

func (r *reservaRepo) UpdateTx(tx *gorm.DB, res *model.Reserva) error {
	return tx.Omit(clause.Associations).Save(res).Error
}

func (r *reservaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := r.db.WithContext(ctx).Preload("Habitacion").First(&res, "id = ?", id).Error
	return &res, err
}

func (r *reservaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, "id = ?", id).Error
	return &res, err
}

func (r *reservaRepo) FindActivaByVisitaForUpdateTx(tx *gorm.DB, visitaID uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("visita_id = ? AND fecha_fin IS NULL AND fecha_anulacion IS NULL", visitaID).
		Order("fecha_inicio DESC").
		First(&res).Error
	return &res, err
}

func (r *reservaRepo) ExisteActivaByVisitaTx(tx *gorm.DB, visitaID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.Reserva{}).
		Where("visita_id = ? AND fecha_fin IS NULL AND fecha_anulacion IS NULL", visitaID).
		Count(&n).Error
	return n > 0, err
}

// ListByHabitacionEnRango returns the non-cancelled reservations of a room that
// start before hasta and have not finished before desde. Active reservations
// are returned regardless of their planned end; callers clip them.
func (r *reservaRepo) ListByHabitacionEnRango(ctx context.Context, habitacionID uuid.UUID, desde, hasta time.Time) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Where("habitacion_id = ? AND fecha_anulacion IS NULL", habitacionID).
		Where("fecha_inicio < ?", hasta.UTC()).
		Where("(fecha_fin IS NULL OR fecha_fin > ?)", desde.UTC()).
		Order("fecha_inicio ASC").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) ListActivas(ctx context.Context) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).Preload("Habitacion").
		Where("fecha_fin IS NULL AND fecha_anulacion IS NULL").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) CreateRegistroTx(tx *gorm.DB, reg *model.Registro) error {
	return tx.Create(reg).Error
}
