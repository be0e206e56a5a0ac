package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CerrarCajaRequest struct {
	// MontoInicialSiguiente is the opening balance carried into the next cierre.
	MontoInicialSiguiente decimal.Decimal `json:"monto_inicial_siguiente" validate:"min=0"`
	Observacion           *string         `json:"observacion"             validate:"omitempty,max=250"`
}

type CierreFilter struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MontosPorMedio struct {
	Efectivo  decimal.Decimal `json:"efectivo"`
	Tarjeta   decimal.Decimal `json:"tarjeta"`
	Billetera decimal.Decimal `json:"billetera"`
	Descuento decimal.Decimal `json:"descuento"`
	Total     decimal.Decimal `json:"total"`
}

type CierreResponse struct {
	ID            string          `json:"id"`
	Estado        string          `json:"estado"` // abierto | cerrado
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	Totales       MontosPorMedio  `json:"totales"`
	Observacion   *string         `json:"observacion"`
	FechaApertura string          `json:"fecha_apertura"`
	FechaCierre   *string         `json:"fecha_cierre"`
	Pagos         []PagoResponse  `json:"pagos,omitempty"`
}

// CerrarCajaResponse returns the closed cierre and the one opened in its place.
type CerrarCajaResponse struct {
	Cerrado CierreResponse `json:"cerrado"`
	Nuevo   CierreResponse `json:"nuevo"`
}

// CierreActualResponse previews what the next close would sweep.
type CierreActualResponse struct {
	Cierre          *CierreResponse `json:"cierre"`
	PagosPendientes int             `json:"pagos_pendientes"`
	Preliminar      MontosPorMedio  `json:"preliminar"`
}

type CierreListResponse struct {
	Data  []CierreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
