package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// UsageFilter acota las consultas de consumo. Los campos nil/vacíos no
// filtran; las listas filtran por pertenencia.
type UsageFilter struct {
	From        *time.Time
	To          *time.Time
	Departments []string
	Items       []string
	Categories  []string
}

// UsageOverviewResult resultado crudo del resumen general de consumo.
// Lo produce la DB; el use case lo convierte en DTO.
type UsageOverviewResult struct {
	TotalQuantity decimal.Decimal
	UniqueItems   int64
	RecordCount   int64
	FirstDate     *time.Time
	LastDate      *time.Time
}

// DepartmentTotalResult consumo agregado de un departamento.
type DepartmentTotalResult struct {
	Department    string
	TotalQuantity decimal.Decimal
	RecordCount   int64
}

// MonthlyTotalResult consumo agregado de un mes calendario.
type MonthlyTotalResult struct {
	Month         time.Time // primer día del mes (date_trunc)
	TotalQuantity decimal.Decimal
}

// ItemTotalResult consumo agregado de un artículo.
type ItemTotalResult struct {
	ItemName      string
	TotalQuantity decimal.Decimal
	RecordCount   int64
}

// CategoryTotalResult consumo agregado de una categoría.
type CategoryTotalResult struct {
	Category      string
	TotalQuantity decimal.Decimal
}

// UsageStatsRepository define las consultas de lectura para el reporte de
// consumo histórico. Las implementaciones son read-only.
type UsageStatsRepository interface {
	// GetOverview devuelve cantidad total, artículos distintos, número de
	// registros y rango de fechas del histórico filtrado.
	GetOverview(ctx context.Context, filter UsageFilter) (*UsageOverviewResult, error)

	// GetDepartmentTotals devuelve el consumo por departamento, descendente.
	GetDepartmentTotals(ctx context.Context, filter UsageFilter) ([]DepartmentTotalResult, error)

	// GetMonthlyTotals devuelve el consumo por mes calendario, ascendente.
	GetMonthlyTotals(ctx context.Context, filter UsageFilter) ([]MonthlyTotalResult, error)

	// GetTopItems devuelve los `limit` artículos de mayor consumo, descendente.
	GetTopItems(ctx context.Context, filter UsageFilter, limit int) ([]ItemTotalResult, error)

	// GetCategoryTotals devuelve el consumo por categoría, descendente.
	GetCategoryTotals(ctx context.Context, filter UsageFilter) ([]CategoryTotalResult, error)

	// ListRecent devuelve una página del histórico, fecha descendente.
	ListRecent(ctx context.Context, filter UsageFilter, limit, offset int) ([]entity.CheckoutRecord, error)

	// ── Catálogos para selectores ─────────────────────────────────────────────

	// ListItems devuelve los nombres de artículo distintos, ascendente.
	ListItems(ctx context.Context) ([]string, error)

	// ListDepartments devuelve los departamentos distintos, ascendente.
	ListDepartments(ctx context.Context) ([]string, error)

	// ListCategories devuelve las categorías distintas, ascendente.
	ListCategories(ctx context.Context) ([]string, error)
}
