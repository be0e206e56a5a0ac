package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habitacion is a rentable room. VisitaID is set while the room is occupied.
type Habitacion struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Nombre        string     `gorm:"not null"`
	CategoriaID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Disponible    bool       `gorm:"not null"`
	VisitaID      *uuid.UUID `gorm:"type:uuid"`
	Anulado       bool       `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (h *Habitacion) BeforeCreate(*gorm.DB) error { newID(&h.ID); return nil }

func (Habitacion) TableName() string { return "habitaciones" }
