package handler

import (
	"net/http"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the read-only lookups the reception screen needs.
// Catalog maintenance lives in the administration service.
type CatalogoHandler struct {
	habitaciones repository.HabitacionRepository
	tarifas      repository.TarifaRepository
	articulos    repository.ArticuloRepository
	pagos        repository.PagoRepository
}

func NewCatalogoHandler(
	habitaciones repository.HabitacionRepository,
	tarifas repository.TarifaRepository,
	articulos repository.ArticuloRepository,
	pagos repository.PagoRepository,
) *CatalogoHandler {
	return &CatalogoHandler{habitaciones: habitaciones, tarifas: tarifas, articulos: articulos, pagos: pagos}
}

// Habitaciones godoc
// @Summary Lista las habitaciones con su estado
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.HabitacionResponse
// @Router /v1/habitaciones [get]
func (h *CatalogoHandler) Habitaciones(c *gin.Context) {
	habs, err := h.habitaciones.List(c.Request.Context(), middleware.GetInstitucionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.HabitacionResponse, len(habs))
	for i, hab := range habs {
		r := dto.HabitacionResponse{
			ID:          hab.ID.String(),
			Nombre:      hab.Nombre,
			CategoriaID: hab.CategoriaID.String(),
			Disponible:  hab.Disponible,
		}
		if hab.Categoria != nil {
			r.Categoria = hab.Categoria.Nombre
			r.PrecioHora = hab.Categoria.PrecioNormal
		}
		if hab.VisitaID != nil {
			s := hab.VisitaID.String()
			r.VisitaID = &s
		}
		out[i] = r
	}
	c.JSON(http.StatusOK, out)
}

// Promociones godoc
// @Summary Promociones activas de una categoria
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de categoria"
// @Success 200 {array} dto.PromocionResponse
// @Router /v1/categorias/{id}/promociones [get]
func (h *CatalogoHandler) Promociones(c *gin.Context) {
	categoriaID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	promos, err := h.tarifas.ListPromociones(c.Request.Context(), middleware.GetInstitucionID(c), categoriaID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.PromocionResponse, len(promos))
	for i, p := range promos {
		out[i] = dto.PromocionResponse{ID: p.ID.String(), Nombre: p.Nombre, Tarifa: p.Tarifa, CantidadHoras: p.CantidadHoras}
	}
	c.JSON(http.StatusOK, out)
}

// Articulos godoc
// @Summary Articulos vendibles
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ArticuloResponse
// @Router /v1/articulos [get]
func (h *CatalogoHandler) Articulos(c *gin.Context) {
	arts, err := h.articulos.List(c.Request.Context(), middleware.GetInstitucionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ArticuloResponse, len(arts))
	for i, a := range arts {
		out[i] = dto.ArticuloResponse{ID: a.ID.String(), Nombre: a.Nombre, Precio: a.Precio}
	}
	c.JSON(http.StatusOK, out)
}

// MediosPago godoc
// @Summary Medios de pago activos
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MedioPagoResponse
// @Router /v1/medios-pago [get]
func (h *CatalogoHandler) MediosPago(c *gin.Context) {
	medios, err := h.pagos.ListMediosPago(c.Request.Context(), middleware.GetInstitucionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.MedioPagoResponse, len(medios))
	for i, m := range medios {
		out[i] = dto.MedioPagoResponse{ID: m.ID.String(), Nombre: m.Nombre}
	}
	c.JSON(http.StatusOK, out)
}
