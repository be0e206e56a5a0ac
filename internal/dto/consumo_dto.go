package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ConsumoItemRequest leaves quantity unvalidated here; the recorder rejects
// non-positive quantities with cantidad_invalida.
type ConsumoItemRequest struct {
	ArticuloID string `json:"articulo_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"`
}

type RegistrarConsumoRequest struct {
	Items []ConsumoItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ConsumoResponse struct {
	ID                 string          `json:"id"`
	ArticuloID         string          `json:"articulo_id"`
	Cantidad           int             `json:"cantidad"`
	CantidadHabitacion int             `json:"cantidad_habitacion"`
	CantidadGeneral    int             `json:"cantidad_general"`
	EsHabitacion       bool            `json:"es_habitacion"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Anulado            bool            `json:"anulado"`
}

type MovimientoResponse struct {
	ID             string            `json:"id"`
	VisitaID       string            `json:"visita_id"`
	HabitacionID   string            `json:"habitacion_id"`
	TotalFacturado decimal.Decimal   `json:"total_facturado"`
	Pagado         bool              `json:"pagado"`
	Anulado        bool              `json:"anulado"`
	Consumos       []ConsumoResponse `json:"consumos"`
}
