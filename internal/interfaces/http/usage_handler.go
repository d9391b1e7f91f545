package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appallocation "github.com/jhoicas/Asignacion-api/internal/application/allocation"
	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/application/usage"
	"github.com/jhoicas/Asignacion-api/internal/domain"
)

// UsageHandler maneja los endpoints de consulta del histórico de consumo.
type UsageHandler struct {
	uc      *usage.UseCase
	allocUC *appallocation.UseCase
}

// NewUsageHandler construye el handler.
func NewUsageHandler(uc *usage.UseCase, allocUC *appallocation.UseCase) *UsageHandler {
	return &UsageHandler{uc: uc, allocUC: allocUC}
}

// Summary godoc
// @Summary      Tablero de consumo histórico
// @Description  Totales, consumo por departamento, serie mensual, ranking de
//               artículos y consumo por categoría en una sola respuesta.
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Param        from         query  string    false  "Inicio del período (YYYY-MM-DD)"
// @Param        to           query  string    false  "Fin del período (YYYY-MM-DD), inclusivo"
// @Param        departments  query  []string  false  "Repetible: ?departments=Kitchen&departments=Bar"  collectionFormat(multi)
// @Param        items        query  []string  false  "Repetible: nombres de artículo"                   collectionFormat(multi)
// @Param        categories   query  []string  false  "Repetible: categorías"                            collectionFormat(multi)
// @Success      200  {object}  dto.UsageSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/usage/summary [get]
func (h *UsageHandler) Summary(c *fiber.Ctx) error {
	var q dto.UsageQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}

	out, err := h.uc.Summary(c.Context(), q)
	if err != nil {
		return usageError(c, err)
	}
	return c.JSON(out)
}

// Records godoc
// @Summary      Registros del histórico, paginados
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        to      query  string  false  "Fin del período (YYYY-MM-DD), inclusivo"
// @Param        limit   query  int     false  "Filas por página (default 20, max 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RecordsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/usage/records [get]
func (h *UsageHandler) Records(c *fiber.Ctx) error {
	var q dto.UsageQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	if page.Limit > 100 {
		page.Limit = 100
	}

	out, err := h.uc.Records(c.Context(), q, page)
	if err != nil {
		return usageError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Invalidar la foto del histórico
// @Description  Fuerza que el siguiente cálculo de asignación recargue el
//               histórico desde la base de datos. Solo admin.
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/usage/refresh [post]
func (h *UsageHandler) Refresh(c *fiber.Ctx) error {
	h.allocUC.Refresh()
	return c.JSON(dto.MessageResponse{
		Message: "foto del histórico invalidada; el siguiente cálculo recarga desde la base",
	})
}

// Items godoc
// @Summary      Catálogo de artículos
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalogs/items [get]
func (h *UsageHandler) Items(c *fiber.Ctx) error {
	out, err := h.uc.Items(c.Context())
	if err != nil {
		return usageError(c, err)
	}
	return c.JSON(out)
}

// Departments godoc
// @Summary      Catálogo de departamentos
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalogs/departments [get]
func (h *UsageHandler) Departments(c *fiber.Ctx) error {
	out, err := h.uc.Departments(c.Context())
	if err != nil {
		return usageError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Catálogo de categorías
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalogs/categories [get]
func (h *UsageHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context())
	if err != nil {
		return usageError(c, err)
	}
	return c.JSON(out)
}

// usageError mapea los errores de consulta a códigos HTTP.
func usageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
