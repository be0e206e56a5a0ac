package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MedioPago is a configured payment method (efectivo, posnet, billetera).
type MedioPago struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre        string    `gorm:"not null"`
	Activo        bool      `gorm:"not null"`
	CreatedAt     time.Time
}

func (m *MedioPago) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }

func (MedioPago) TableName() string { return "medios_pago" }

// Pago settles the pending movements of a visit. CierreID stays nil until the
// payment is swept into a cash register closure.
type Pago struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VisitaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedioPagoID    uuid.UUID       `gorm:"type:uuid;not null"`
	MontoEfectivo  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoTarjeta   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoBilletera decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoDescuento decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoFacturado is the sum of the settled movements at payment time.
	MontoFacturado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CierreID       *uuid.UUID      `gorm:"type:uuid;index"`
	Observacion    *string
	Fecha          time.Time `gorm:"not null;index"`
	CreatedAt      time.Time

	Recargos    []Recargo    `gorm:"foreignKey:PagoID"`
	Movimientos []Movimiento `gorm:"foreignKey:PagoID"`
}

func (p *Pago) BeforeCreate(*gorm.DB) error { newID(&p.ID); return nil }

// Total is what the guest handed over across all channels.
func (p *Pago) Total() decimal.Decimal {
	return p.MontoEfectivo.Add(p.MontoTarjeta).Add(p.MontoBilletera)
}

// Recargo is a surcharge line attached to a payment (card fees and such).
type Recargo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PagoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion string          `gorm:"not null"`
	Porcentaje  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

func (r *Recargo) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }
