package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	appallocation "github.com/jhoicas/Asignacion-api/internal/application/allocation"
	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/application/reports"
	"github.com/jhoicas/Asignacion-api/internal/domain"
)

// AllocationHandler maneja los endpoints del motor de asignación.
type AllocationHandler struct {
	uc        *appallocation.UseCase
	reportsUC *reports.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *appallocation.UseCase, reportsUC *reports.UseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc, reportsUC: reportsUC}
}

// Calculate godoc
// @Summary      Calcular el reparto de un lote de artículos
// @Description  Calcula las proporciones de consumo histórico por departamento y reparte la cantidad disponible de cada artículo en unidades enteras que suman exactamente lo disponible.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationRequest  true  "department opcional; items 1..10"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/allocations/calculate [post]
func (h *AllocationHandler) Calculate(c *fiber.Ctx) error {
	var in dto.AllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Calculate(c.Context(), in)
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(out)
}

// Proportions godoc
// @Summary      Proporciones históricas de un artículo
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        identifier  query  string  true   "serial numérico o nombre del artículo"
// @Param        department  query  string  false  "limita a un departamento; vacío o 'All Departments' = todos"
// @Success      200  {object}  dto.ProportionsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/proportions [get]
func (h *AllocationHandler) Proportions(c *fiber.Ctx) error {
	identifier := strings.TrimSpace(c.Query("identifier"))
	if identifier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido"})
	}

	out, err := h.uc.Proportions(c.Context(), identifier, c.Query("department"))
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el reparto de un artículo como CSV
// @Tags         allocations
// @Security     Bearer
// @Produce      text/csv
// @Param        identifier  query  string  true   "serial numérico o nombre del artículo"
// @Param        quantity    query  number  true   "cantidad disponible a repartir"
// @Param        department  query  string  false  "limita a un departamento"
// @Success      200  {string}  string  "archivo CSV"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/export [get]
func (h *AllocationHandler) Export(c *fiber.Ctx) error {
	identifier := strings.TrimSpace(c.Query("identifier"))
	if identifier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido"})
	}
	rawQty := strings.TrimSpace(c.Query("quantity"))
	if rawQty == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity es requerido"})
	}
	quantity, err := decimal.NewFromString(rawQty)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser numérico"})
	}

	data, filename, err := h.uc.ExportCSV(c.Context(), identifier, quantity, c.Query("department"))
	if err != nil {
		return allocationError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Report godoc
// @Summary      Generar el informe PDF de un lote
// @Description  Corre el mismo cálculo de /calculate y devuelve el informe en
//               PDF listo para descargar.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.AllocationRequest  true  "department opcional; items 1..10"
// @Success      200   {string}  string  "archivo PDF"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/allocations/report [post]
func (h *AllocationHandler) Report(c *fiber.Ctx) error {
	var in dto.AllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	data, filename, err := h.reportsUC.DownloadAllocationPDF(c.Context(), in)
	if err != nil {
		return allocationError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// allocationError mapea los errores del motor a códigos HTTP.
func allocationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNoUsageHistory):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_USAGE_HISTORY", Message: err.Error()})
	case errors.Is(err, domain.ErrZeroUsage):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ZERO_USAGE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
