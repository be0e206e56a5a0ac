package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Visita is the guest stay that reservations, movements and payments hang from.
type Visita struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstitucionID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Patente            *string   `gorm:"type:varchar(20)"`
	Telefono           *string   `gorm:"type:varchar(30)"`
	Identificador      *string   `gorm:"type:varchar(60)"`
	FechaPrimerIngreso time.Time `gorm:"not null"`
	Anulado            bool      `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (v *Visita) BeforeCreate(*gorm.DB) error { newID(&v.ID); return nil }

// Estados derived from a Reserva's timestamps.
const (
	ReservaActiva     = "activa"
	ReservaPausada    = "pausada"
	ReservaFinalizada = "finalizada"
	ReservaAnulada    = "anulada"
)

// Reserva is one occupancy session of a room.
// FechaFin and FechaAnulacion are mutually exclusive; once either is set the
// reservation is terminal. PausaHoras/PausaMinutos hold the elapsed time frozen
// at the last pause and are nil while the clock runs.
type Reserva struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstitucionID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	VisitaID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	HabitacionID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MovimientoID      *uuid.UUID `gorm:"type:uuid"`
	PromocionID       *uuid.UUID `gorm:"type:uuid"`
	FechaInicio       time.Time  `gorm:"not null;index"`
	TotalHoras        int        `gorm:"not null"`
	TotalMinutos      int        `gorm:"not null"`
	Personas          int        `gorm:"not null;default:0"` // 0 = not declared
	PausaHoras        *int
	PausaMinutos      *int
	Tarifa            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImporteHabitacion decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FechaFin          *time.Time
	FechaAnulacion    *time.Time
	MotivoAnulacion   *string `gorm:"type:varchar(150)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Habitacion *Habitacion `gorm:"foreignKey:HabitacionID"`
}

func (r *Reserva) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

func (r *Reserva) Terminal() bool { return r.FechaFin != nil || r.FechaAnulacion != nil }

func (r *Reserva) Pausada() bool { return r.PausaHoras != nil || r.PausaMinutos != nil }

// Duracion is the planned length of the stay.
func (r *Reserva) Duracion() time.Duration {
	return time.Duration(r.TotalHoras)*time.Hour + time.Duration(r.TotalMinutos)*time.Minute
}

// Pausa is the frozen elapsed time recorded by the last pause.
func (r *Reserva) Pausa() time.Duration {
	var d time.Duration
	if r.PausaHoras != nil {
		d += time.Duration(*r.PausaHoras) * time.Hour
	}
	if r.PausaMinutos != nil {
		d += time.Duration(*r.PausaMinutos) * time.Minute
	}
	return d
}

// FinPrevisto is the planned end: start plus planned duration.
func (r *Reserva) FinPrevisto() time.Time { return r.FechaInicio.Add(r.Duracion()) }

func (r *Reserva) Estado() string {
	switch {
	case r.FechaAnulacion != nil:
		return ReservaAnulada
	case r.FechaFin != nil:
		return ReservaFinalizada
	case r.Pausada():
		return ReservaPausada
	default:
		return ReservaActiva
	}
}

// Registro is a free-text audit entry.
type Registro struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstitucionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReservaID     *uuid.UUID `gorm:"type:uuid;index"`
	Tipo          string     `gorm:"type:varchar(40);not null"` // "anulacion_ocupacion"
	Contenido     string     `gorm:"not null"`
	CreatedAt     time.Time
}

func (r *Registro) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }
