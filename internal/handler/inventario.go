package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/apierror"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Reconciliar godoc
// @Summary Reconcilia el inventario general con el catalogo de articulos
// @Description Elimina entradas de articulos anulados y crea entradas en cero para los activos sin una.
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ReconciliacionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/inventario/reconciliar [post]
func (h *InventarioHandler) Reconciliar(c *gin.Context) {
	resp, err := h.svc.Reconciliar(c.Request.Context(), middleware.GetInstitucionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Auditoria de movimientos de stock
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param articulo_id query string false "Filtrar por articulo"
// @Param habitacion_id query string false "Filtrar por habitacion"
// @Param tipo query string false "consumo | restore_anulacion"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.MovimientoStockListResponse
// @Router /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoStockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), middleware.GetInstitucionID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
