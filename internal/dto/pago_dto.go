package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RecargoRequest adds a surcharge line. When Monto is zero it is derived from
// Porcentaje over the billed total.
type RecargoRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,max=120"`
	Porcentaje  decimal.Decimal `json:"porcentaje"  validate:"min=0,max=100"`
	Monto       decimal.Decimal `json:"monto"       validate:"min=0"`
}

type PagarRequest struct {
	MedioPagoID    string          `json:"medio_pago_id"   validate:"required"`
	MontoEfectivo  decimal.Decimal `json:"monto_efectivo"`
	MontoTarjeta   decimal.Decimal `json:"monto_tarjeta"`
	MontoBilletera decimal.Decimal `json:"monto_billetera"`
	MontoDescuento decimal.Decimal `json:"monto_descuento"`
	Recargo        *RecargoRequest `json:"recargo"`
	Observacion    *string         `json:"observacion" validate:"omitempty,max=250"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecargoResponse struct {
	Descripcion string          `json:"descripcion"`
	Porcentaje  decimal.Decimal `json:"porcentaje"`
	Monto       decimal.Decimal `json:"monto"`
}

type PagoResponse struct {
	ID             string            `json:"id"`
	VisitaID       string            `json:"visita_id"`
	MedioPagoID    string            `json:"medio_pago_id"`
	MontoEfectivo  decimal.Decimal   `json:"monto_efectivo"`
	MontoTarjeta   decimal.Decimal   `json:"monto_tarjeta"`
	MontoBilletera decimal.Decimal   `json:"monto_billetera"`
	MontoDescuento decimal.Decimal   `json:"monto_descuento"`
	MontoFacturado decimal.Decimal   `json:"monto_facturado"`
	Movimientos    []string          `json:"movimientos"`
	Recargos       []RecargoResponse `json:"recargos"`
	CierreID       *string           `json:"cierre_id"`
	Fecha          string            `json:"fecha"`
}
