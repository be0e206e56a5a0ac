package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CierreAbierto = "abierto"
	CierreCerrado = "cerrado"
)

// Cierre is a cash register closure. At most one per institution is open at a
// time (enforced by a partial unique index on Postgres). Closed cierres are
// immutable.
type Cierre struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstitucionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalEfectivo  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalTarjeta   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalBilletera decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalDescuento decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado         string          `gorm:"type:varchar(20);not null"`
	Observacion    *string
	FechaApertura  time.Time `gorm:"not null"`
	FechaCierre    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Pagos []Pago `gorm:"foreignKey:CierreID"`
}

func (c *Cierre) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }

func (c *Cierre) Total() decimal.Decimal {
	return c.TotalEfectivo.Add(c.TotalTarjeta).Add(c.TotalBilletera)
}
