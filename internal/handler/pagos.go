package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Pagar godoc
// @Summary Liquida los movimientos pendientes de una visita
// @Tags pagos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de visita"
// @Param body body dto.PagarRequest true "Montos por medio de pago"
// @Success 201 {object} dto.PagoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/visitas/{id}/pagos [post]
func (h *PagosHandler) Pagar(c *gin.Context) {
	visitaID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.PagarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pagar(c.Request.Context(), middleware.GetInstitucionID(c), visitaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
