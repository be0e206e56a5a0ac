package handler

import (
	"context"
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OcupacionHandler struct{ svc service.OcupacionService }

func NewOcupacionHandler(svc service.OcupacionService) *OcupacionHandler {
	return &OcupacionHandler{svc: svc}
}

// Reservar godoc
// @Summary Ocupa una habitacion disponible
// @Tags ocupaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReservarRequest true "Habitacion, duracion y promocion"
// @Success 201 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/ocupaciones [post]
func (h *OcupacionHandler) Reservar(c *gin.Context) {
	var req dto.ReservarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reservar(c.Request.Context(), middleware.GetInstitucionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Estado godoc
// @Summary Estado actual de una ocupacion
// @Tags ocupaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de reserva"
// @Success 200 {object} dto.EstadoOcupacionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ocupaciones/{id} [get]
func (h *OcupacionHandler) Estado(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Estado(c.Request.Context(), middleware.GetInstitucionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pausar godoc
// @Summary Pausa el reloj de la ocupacion activa de una visita
// @Tags ocupaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de visita"
// @Success 200 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/visitas/{id}/pausar [post]
func (h *OcupacionHandler) Pausar(c *gin.Context) {
	h.porVisita(c, h.svc.Pausar)
}

// Reanudar godoc
// @Summary Reanuda una ocupacion pausada
// @Tags ocupaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de visita"
// @Success 200 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/visitas/{id}/reanudar [post]
func (h *OcupacionHandler) Reanudar(c *gin.Context) {
	h.porVisita(c, h.svc.Reanudar)
}

func (h *OcupacionHandler) porVisita(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*dto.ReservaResponse, error)) {
	visitaID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := op(c.Request.Context(), middleware.GetInstitucionID(c), visitaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary Finaliza la ocupacion de una habitacion (checkout)
// @Tags ocupaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de habitacion"
// @Success 200 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/habitaciones/{id}/finalizar [post]
func (h *OcupacionHandler) Finalizar(c *gin.Context) {
	habitacionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), middleware.GetInstitucionID(c), habitacionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anula una ocupacion y restaura el stock de sus consumos
// @Tags ocupaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de reserva"
// @Param body body dto.AnularReservaRequest true "Motivo (max 150)"
// @Success 200 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ocupaciones/{id}/anular [post]
func (h *OcupacionHandler) Anular(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AnularReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), middleware.GetInstitucionID(c), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarPromocion godoc
// @Summary Cambia o quita la promocion de una ocupacion activa
// @Tags ocupaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de reserva"
// @Param body body dto.CambiarPromocionRequest true "Promocion (null para quitarla)"
// @Success 200 {object} dto.ReservaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ocupaciones/{id}/promocion [put]
func (h *OcupacionHandler) CambiarPromocion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var promocionID *uuid.UUID
	if req.PromocionID != nil && *req.PromocionID != "" {
		pid, _ := uuid.Parse(*req.PromocionID) // validated by the uuid tag
		promocionID = &pid
	}
	resp, err := h.svc.CambiarPromocion(c.Request.Context(), middleware.GetInstitucionID(c), id, promocionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExtenderTiempo godoc
// @Summary Extiende la duracion de una ocupacion activa
// @Tags ocupaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de reserva"
// @Param body body dto.ExtenderTiempoRequest true "Horas y minutos adicionales"
// @Success 200 {object} dto.ReservaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ocupaciones/{id}/extender [post]
func (h *OcupacionHandler) ExtenderTiempo(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ExtenderTiempoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ExtenderTiempo(c.Request.Context(), middleware.GetInstitucionID(c), id, req.Horas, req.Minutos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
