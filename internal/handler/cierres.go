package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/apierror"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type CierresHandler struct{ svc service.CierreService }

func NewCierresHandler(svc service.CierreService) *CierresHandler { return &CierresHandler{svc: svc} }

// Cerrar godoc
// @Summary Cierra la caja con los pagos pendientes y abre la siguiente
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Monto inicial del proximo cierre"
// @Success 201 {object} dto.CerrarCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cierres/cerrar [post]
func (h *CierresHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), middleware.GetInstitucionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actual godoc
// @Summary Cierre abierto y totales preliminares de los pagos sin cerrar
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CierreActualResponse
// @Router /v1/cierres/actual [get]
func (h *CierresHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context(), middleware.GetInstitucionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un cierre con sus pagos
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de cierre"
// @Success 200 {object} dto.CierreResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cierres/{id} [get]
func (h *CierresHandler) Obtener(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetInstitucionID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Historial paginado de cierres
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.CierreListResponse
// @Router /v1/cierres [get]
func (h *CierresHandler) Listar(c *gin.Context) {
	var filter dto.CierreFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetInstitucionID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
