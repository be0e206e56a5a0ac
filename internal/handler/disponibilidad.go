package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type DisponibilidadHandler struct{ svc service.DisponibilidadService }

func NewDisponibilidadHandler(svc service.DisponibilidadService) *DisponibilidadHandler {
	return &DisponibilidadHandler{svc: svc}
}

// VentanasLibres godoc
// @Summary Ventanas libres de una habitacion en un dia
// @Tags disponibilidad
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de habitacion"
// @Param fecha query string true "Dia (AAAA-MM-DD, hora local del hotel)"
// @Success 200 {object} dto.DisponibilidadResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/habitaciones/{id}/disponibilidad [get]
func (h *DisponibilidadHandler) VentanasLibres(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.VentanasLibres(c.Request.Context(), middleware.GetInstitucionID(c), id, c.Query("fecha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
