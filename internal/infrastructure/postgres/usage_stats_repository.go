package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
	"github.com/jhoicas/Asignacion-api/internal/domain/repository"
)

var _ repository.UsageStatsRepository = (*UsageStatsRepo)(nil)

// UsageStatsRepo consultas de solo lectura para el reporte de consumo histórico.
type UsageStatsRepo struct {
	pool *pgxpool.Pool
}

// NewUsageStatsRepository construye el adaptador de estadísticas de consumo.
func NewUsageStatsRepository(pool *pgxpool.Pool) *UsageStatsRepo {
	return &UsageStatsRepo{pool: pool}
}

// GetOverview devuelve el resumen general del histórico filtrado.
// Usa COALESCE para devolver cero si no hay filas en el período.
func (r *UsageStatsRepo) GetOverview(ctx context.Context, filter repository.UsageFilter) (*repository.UsageOverviewResult, error) {
	query := `
	SELECT
	    COALESCE(SUM(quantity), 0)    AS total_quantity,
	    COUNT(DISTINCT item_name)     AS unique_items,
	    COUNT(*)                      AS record_count,
	    MIN(date)                     AS first_date,
	    MAX(date)                     AS last_date
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause

	var row repository.UsageOverviewResult
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&row.TotalQuantity, &row.UniqueItems, &row.RecordCount,
		&row.FirstDate, &row.LastDate,
	)
	if err != nil {
		return nil, fmt.Errorf("stats.GetOverview: %w", err)
	}
	return &row, nil
}

// GetDepartmentTotals devuelve el consumo agregado por departamento, descendente.
func (r *UsageStatsRepo) GetDepartmentTotals(ctx context.Context, filter repository.UsageFilter) ([]repository.DepartmentTotalResult, error) {
	query := `
	SELECT
	    department,
	    COALESCE(SUM(quantity), 0) AS total_quantity,
	    COUNT(*)                   AS record_count
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause + `
	GROUP BY department
	ORDER BY total_quantity DESC, department`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.GetDepartmentTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.DepartmentTotalResult
	for rows.Next() {
		var row repository.DepartmentTotalResult
		if err := rows.Scan(&row.Department, &row.TotalQuantity, &row.RecordCount); err != nil {
			return nil, fmt.Errorf("stats.GetDepartmentTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetMonthlyTotals devuelve el consumo agregado por mes calendario, ascendente.
func (r *UsageStatsRepo) GetMonthlyTotals(ctx context.Context, filter repository.UsageFilter) ([]repository.MonthlyTotalResult, error) {
	query := `
	SELECT
	    date_trunc('month', date)  AS month,
	    COALESCE(SUM(quantity), 0) AS total_quantity
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause + `
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.GetMonthlyTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyTotalResult
	for rows.Next() {
		var row repository.MonthlyTotalResult
		if err := rows.Scan(&row.Month, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("stats.GetMonthlyTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetTopItems devuelve los `limit` artículos de mayor consumo, descendente.
func (r *UsageStatsRepo) GetTopItems(ctx context.Context, filter repository.UsageFilter, limit int) ([]repository.ItemTotalResult, error) {
	query := `
	SELECT
	    item_name,
	    COALESCE(SUM(quantity), 0) AS total_quantity,
	    COUNT(*)                   AS record_count
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause + fmt.Sprintf(`
	GROUP BY item_name
	ORDER BY total_quantity DESC, item_name
	LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.GetTopItems: %w", err)
	}
	defer rows.Close()

	var results []repository.ItemTotalResult
	for rows.Next() {
		var row repository.ItemTotalResult
		if err := rows.Scan(&row.ItemName, &row.TotalQuantity, &row.RecordCount); err != nil {
			return nil, fmt.Errorf("stats.GetTopItems scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetCategoryTotals devuelve el consumo agregado por categoría, descendente.
// Las filas sin categoría se agrupan bajo "Uncategorized".
func (r *UsageStatsRepo) GetCategoryTotals(ctx context.Context, filter repository.UsageFilter) ([]repository.CategoryTotalResult, error) {
	query := `
	SELECT
	    COALESCE(NULLIF(category, ''), 'Uncategorized') AS category,
	    COALESCE(SUM(quantity), 0)                      AS total_quantity
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause + `
	GROUP BY 1
	ORDER BY total_quantity DESC, category`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.GetCategoryTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryTotalResult
	for rows.Next() {
		var row repository.CategoryTotalResult
		if err := rows.Scan(&row.Category, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("stats.GetCategoryTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ListRecent devuelve una página del histórico, fecha descendente.
func (r *UsageStatsRepo) ListRecent(ctx context.Context, filter repository.UsageFilter, limit, offset int) ([]entity.CheckoutRecord, error) {
	query := `
	SELECT id, date, item_serial, item_name, department, department_category,
	       issued_to, quantity, unit, category, reference, batch_number,
	       store, received_by, created_at
	FROM checkout_records
	WHERE 1=1`
	clause, args := usageFilterClause(filter, 1)
	query += clause + fmt.Sprintf(`
	ORDER BY date DESC, created_at DESC
	LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.ListRecent: %w", err)
	}
	defer rows.Close()

	var records []entity.CheckoutRecord
	for rows.Next() {
		var rec entity.CheckoutRecord
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.ItemSerial, &rec.ItemName, &rec.Department,
			&rec.DepartmentCategory, &rec.IssuedTo, &rec.Quantity, &rec.Unit,
			&rec.Category, &rec.Reference, &rec.BatchNumber, &rec.Store,
			&rec.ReceivedBy, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("stats.ListRecent scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ── Catálogos ─────────────────────────────────────────────────────────────────

// ListItems devuelve los nombres de artículo distintos, ascendente.
func (r *UsageStatsRepo) ListItems(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, "item_name")
}

// ListDepartments devuelve los departamentos distintos, ascendente.
func (r *UsageStatsRepo) ListDepartments(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, "department")
}

// ListCategories devuelve las categorías distintas, ascendente.
func (r *UsageStatsRepo) ListCategories(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, "category")
}

func (r *UsageStatsRepo) listDistinct(ctx context.Context, column string) ([]string, error) {
	// column viene de los tres métodos de arriba, nunca de entrada externa.
	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM checkout_records WHERE %s <> '' ORDER BY %s`,
		column, column, column)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats.listDistinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("stats.listDistinct %s scan: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
