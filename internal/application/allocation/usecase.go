// Package allocation orquesta el motor de asignación sobre la foto del
// histórico: clasifica identificadores, corre el cálculo por lote y arma los
// resultados para la API.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/domain"
	engine "github.com/jhoicas/Asignacion-api/internal/domain/allocation"
	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// Params parámetros de operación del motor (vienen de la configuración).
type Params struct {
	MinProportionPct decimal.Decimal
	HistoryYears     int
	SnapshotTTL      time.Duration
	MaxBatchItems    int
}

// UseCase casos de uso de asignación: proporciones, reparto por lote y
// exportación. Mantiene la foto del histórico en memoria (snapshotCache).
type UseCase struct {
	source SnapshotSource
	params Params
	cache  snapshotCache
}

// NewUseCase construye el caso de uso aplicando defaults a los parámetros
// faltantes.
func NewUseCase(source SnapshotSource, params Params) *UseCase {
	if params.MinProportionPct.IsZero() {
		params.MinProportionPct = engine.DefaultMinProportionPct
	}
	if params.HistoryYears <= 0 {
		params.HistoryYears = 1
	}
	if params.SnapshotTTL <= 0 {
		params.SnapshotTTL = time.Hour
	}
	if params.MaxBatchItems <= 0 {
		params.MaxBatchItems = 10
	}
	return &UseCase{source: source, params: params}
}

// Calculate ejecuta el reparto para un lote de artículos contra una sola foto
// del histórico. Las líneas sin historial no tumban el lote: se reportan con
// Found=false en su posición.
func (uc *UseCase) Calculate(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: el lote no tiene artículos", domain.ErrInvalidInput)
	}
	if len(req.Items) > uc.params.MaxBatchItems {
		return nil, fmt.Errorf("%w: el lote admite máximo %d artículos", domain.ErrInvalidInput, uc.params.MaxBatchItems)
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Identifier) == "" {
			return nil, fmt.Errorf("%w: identificador de artículo vacío", domain.ErrInvalidInput)
		}
		if item.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: la cantidad de %q no puede ser negativa", domain.ErrInvalidInput, item.Identifier)
		}
	}

	records, loadedAt, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]dto.AllocationItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		results = append(results, uc.allocateItem(records, item, req.Department))
	}

	department := req.Department
	if strings.EqualFold(department, engine.AllDepartments) {
		department = ""
	}
	return &dto.AllocationResponse{
		Department: department,
		SnapshotAt: loadedAt,
		Results:    results,
	}, nil
}

// allocateItem corre el motor para una línea del lote y traduce el resultado a
// DTO. Los dos resultados "no encontrado" del motor se reportan en la línea.
func (uc *UseCase) allocateItem(records []entity.CheckoutRecord, item dto.AllocationItemRequest, department string) dto.AllocationItemResult {
	result := dto.AllocationItemResult{
		Identifier: item.Identifier,
		Available:  item.Quantity,
	}

	ident := engine.IdentifierFromString(item.Identifier)
	props, err := engine.CalculateProportions(records, ident, department, uc.params.MinProportionPct)
	if err == nil {
		var rows []engine.AllocationRow
		rows, err = engine.AllocateQuantity(props, item.Quantity)
		if err == nil {
			result.Found = true
			result.Rows = make([]dto.AllocationRowDTO, 0, len(rows))
			for _, row := range rows {
				result.Rows = append(result.Rows, dto.AllocationRowDTO{
					Department: row.Department,
					Proportion: row.Proportion.Round(2),
					Quantity:   row.Quantity,
				})
				result.TotalAllocated += row.Quantity
			}
			result.Departments = len(rows)
			return result
		}
	}

	if errors.Is(err, domain.ErrNoUsageHistory) || errors.Is(err, domain.ErrZeroUsage) {
		result.Message = err.Error()
		return result
	}
	result.Message = fmt.Sprintf("no se pudo calcular el reparto: %v", err)
	return result
}

// Proportions calcula solo la distribución porcentual de un artículo, sin
// repartir cantidades.
func (uc *UseCase) Proportions(ctx context.Context, identifier, department string) (*dto.ProportionsResponse, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("%w: identificador de artículo vacío", domain.ErrInvalidInput)
	}

	records, _, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	props, err := engine.CalculateProportions(records,
		engine.IdentifierFromString(identifier), department, uc.params.MinProportionPct)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ProportionRowDTO, 0, len(props))
	for _, p := range props {
		rows = append(rows, dto.ProportionRowDTO{
			Department: p.Department,
			Quantity:   p.Quantity,
			Proportion: p.Proportion.Round(2),
		})
	}

	dept := department
	if strings.EqualFold(dept, engine.AllDepartments) {
		dept = ""
	}
	return &dto.ProportionsResponse{
		Identifier: identifier,
		Department: dept,
		Rows:       rows,
	}, nil
}

// Refresh invalida la foto del histórico; el siguiente cálculo recarga desde
// la base de datos.
func (uc *UseCase) Refresh() {
	uc.cache.invalidate()
}
