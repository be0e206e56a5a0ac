package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReservarRequest struct {
	HabitacionID  string  `json:"habitacion_id"  validate:"required,uuid"`
	Horas         int     `json:"horas"          validate:"min=0,max=72"`
	Minutos       int     `json:"minutos"        validate:"min=0,max=59"`
	PromocionID   *string `json:"promocion_id"   validate:"omitempty,uuid"`
	Personas      int     `json:"personas"       validate:"min=0,max=20"`
	Patente       *string `json:"patente"        validate:"omitempty,max=20"`
	Telefono      *string `json:"telefono"       validate:"omitempty,max=30"`
	Identificador *string `json:"identificador"  validate:"omitempty,max=60"`
}

// AnularReservaRequest carries the cancellation reason. Length is checked by
// the service so the caller gets the motivo_invalido code.
type AnularReservaRequest struct {
	Motivo string `json:"motivo"`
}

type CambiarPromocionRequest struct {
	PromocionID *string `json:"promocion_id" validate:"omitempty,uuid"`
}

type ExtenderTiempoRequest struct {
	Horas   int `json:"horas"   validate:"min=0,max=72"`
	Minutos int `json:"minutos" validate:"min=0,max=59"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReservaResponse struct {
	ID                string          `json:"id"`
	VisitaID          string          `json:"visita_id"`
	HabitacionID      string          `json:"habitacion_id"`
	MovimientoID      *string         `json:"movimiento_id"`
	PromocionID       *string         `json:"promocion_id"`
	FechaInicio       string          `json:"fecha_inicio"`
	FinPrevisto       string          `json:"fin_previsto"`
	TotalHoras        int             `json:"total_horas"`
	TotalMinutos      int             `json:"total_minutos"`
	Personas          int             `json:"personas"`
	Tarifa            decimal.Decimal `json:"tarifa"`
	ImporteHabitacion decimal.Decimal `json:"importe_habitacion"`
	Estado            string          `json:"estado"` // activa | pausada | finalizada | anulada
	FechaFin          *string         `json:"fecha_fin"`
	FechaAnulacion    *string         `json:"fecha_anulacion"`
	MotivoAnulacion   *string         `json:"motivo_anulacion"`
}

type EstadoOcupacionResponse struct {
	Reserva              ReservaResponse `json:"reserva"`
	MinutosTranscurridos int             `json:"minutos_transcurridos"`
	MinutosRestantes     int             `json:"minutos_restantes"`
	Pausada              bool            `json:"pausada"`
	TotalPendiente       decimal.Decimal `json:"total_pendiente"`
}

type VentanaLibre struct {
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
}

type DisponibilidadResponse struct {
	HabitacionID string         `json:"habitacion_id"`
	Fecha        string         `json:"fecha"`
	Ventanas     []VentanaLibre `json:"ventanas"`
}
