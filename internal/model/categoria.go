package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Categoria groups rooms that share a base hourly rate.
type Categoria struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre          string          `gorm:"not null"`
	PrecioNormal    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // per hour
	CapacidadMaxima int             `gorm:"not null;default:2"`
	// PorcentajeAdicional is the surcharge per guest above CapacidadMaxima.
	PorcentajeAdicional decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo              bool            `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (c *Categoria) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }

// Promocion replaces the category rate with a flat hourly rate.
// It is only valid for rooms of its own category.
type Promocion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoriaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre        string          `gorm:"not null"`
	Tarifa        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadHoras int             `gorm:"not null;default:0"`
	Activo        bool            `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Promocion) BeforeCreate(*gorm.DB) error { newID(&p.ID); return nil }

func (Promocion) TableName() string { return "promociones" }
