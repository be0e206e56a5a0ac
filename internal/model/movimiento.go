package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movimiento is a billable line of a visit: the room charge or a batch of
// consumptions. PagoID is set once the movement is settled.
type Movimiento struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VisitaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	HabitacionID   uuid.UUID       `gorm:"type:uuid;not null"`
	TotalFacturado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoID         *uuid.UUID      `gorm:"type:uuid;index"`
	Anulado        bool            `gorm:"not null"`
	Descripcion    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Consumos []Consumo `gorm:"foreignKey:MovimientoID"`
}

func (m *Movimiento) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }

// Consumo is one article line charged to a movement. CantidadHabitacion and
// CantidadGeneral record how the quantity was drawn from each inventory tier
// so an annulment restores exactly that split.
type Consumo struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MovimientoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArticuloID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad           int             `gorm:"not null"`
	CantidadHabitacion int             `gorm:"not null"`
	CantidadGeneral    int             `gorm:"not null"`
	EsHabitacion       bool            `gorm:"not null"`
	PrecioUnitario     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Anulado            bool            `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Articulo *Articulo `gorm:"foreignKey:ArticuloID"`
}

func (c *Consumo) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }

// Articulo is a sellable item (minibar, kitchen, amenities).
type Articulo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre        string          `gorm:"not null"`
	Precio        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Anulado       bool            `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *Articulo) BeforeCreate(*gorm.DB) error { newID(&a.ID); return nil }
