package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventario is the room-scoped stock of an article.
type Inventario struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID `gorm:"type:uuid;not null;index"`
	HabitacionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_hab_art"`
	ArticuloID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_hab_art"`
	Cantidad      int       `gorm:"not null;check:chk_inventarios_cantidad,cantidad >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i *Inventario) BeforeCreate(*gorm.DB) error { newID(&i.ID); return nil }

// InventarioGeneral is the institution-wide stock, the fallback tier.
type InventarioGeneral struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_general_inst_art"`
	ArticuloID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_general_inst_art"`
	Cantidad      int       `gorm:"not null;check:chk_inventario_general_cantidad,cantidad >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i *InventarioGeneral) BeforeCreate(*gorm.DB) error { newID(&i.ID); return nil }

func (InventarioGeneral) TableName() string { return "inventario_general" }

// Niveles of the two-tier ledger.
const (
	NivelHabitacion = "habitacion"
	NivelGeneral    = "general"
)

// MovimientoStock records every change applied to either inventory tier.
type MovimientoStock struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ArticuloID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	HabitacionID  *uuid.UUID `gorm:"type:uuid"`
	Nivel         string     `gorm:"type:varchar(20);not null"`
	Tipo          string     `gorm:"type:varchar(30);not null"` // "consumo" | "restore_anulacion" | "reconciliacion"
	Cantidad      int        `gorm:"not null"`                  // positive = entrada, negative = salida
	StockAnterior int        `gorm:"not null"`
	StockNuevo    int        `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // consumo_id when applicable
	CreatedAt     time.Time
}

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error { newID(&m.ID); return nil }

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
