package dto

import "github.com/shopspring/decimal"

// ── Catalog responses ────────────────────────────────────────────────────────

type HabitacionResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	CategoriaID string          `json:"categoria_id"`
	Categoria   string          `json:"categoria,omitempty"`
	PrecioHora  decimal.Decimal `json:"precio_hora"`
	Disponible  bool            `json:"disponible"`
	VisitaID    *string         `json:"visita_id"`
}

type PromocionResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Tarifa        decimal.Decimal `json:"tarifa"`
	CantidadHoras int             `json:"cantidad_horas"`
}

type ArticuloResponse struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
}

type MedioPagoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
