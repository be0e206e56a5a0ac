package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsumosHandler struct{ svc service.ConsumoService }

func NewConsumosHandler(svc service.ConsumoService) *ConsumosHandler {
	return &ConsumosHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra consumos sobre un movimiento abierto
// @Description Descuenta stock de la habitacion y luego del deposito general. Todo o nada.
// @Tags consumos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Param body body dto.RegistrarConsumoRequest true "Items"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/movimientos/{id}/consumos [post]
func (h *ConsumosHandler) Registrar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarConsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.GetInstitucionID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerMovimiento godoc
// @Summary Obtiene un movimiento con sus consumos
// @Tags consumos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id} [get]
func (h *ConsumosHandler) ObtenerMovimiento(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerMovimiento(c.Request.Context(), middleware.GetInstitucionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anula un consumo y restaura su stock
// @Tags consumos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de consumo"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/consumos/{id} [delete]
func (h *ConsumosHandler) Anular(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), middleware.GetInstitucionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
