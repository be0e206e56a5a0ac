package dto

type ReconciliacionResponse struct {
	EntradasEliminadas int64 `json:"entradas_eliminadas"`
	EntradasCreadas    int   `json:"entradas_creadas"`
}

type MovimientoStockFilter struct {
	ArticuloID   string `form:"articulo_id"`
	HabitacionID string `form:"habitacion_id"`
	Tipo         string `form:"tipo"`
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=100"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ArticuloID    string  `json:"articulo_id"`
	HabitacionID  *string `json:"habitacion_id"`
	Nivel         string  `json:"nivel"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
