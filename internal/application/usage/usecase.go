// Package usage contiene los casos de uso de consulta del histórico de
// consumo: resumen agregado, listado de registros y catálogos para los
// selectores de la UI.
package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/domain"
	"github.com/jhoicas/Asignacion-api/internal/domain/repository"
)

const (
	summaryTopItems = 10 // artículos en el ranking del resumen

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var hundred = decimal.NewFromInt(100)

// UseCase resume el histórico de consumo.
//
// Fuente de datos: UsageStatsRepository (consultas read-only). No toca la
// foto en memoria del motor de asignación; siempre consulta la base.
type UseCase struct {
	statsRepo repository.UsageStatsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(statsRepo repository.UsageStatsRepository) *UseCase {
	return &UseCase{statsRepo: statsRepo}
}

// Summary construye el tablero de consumo completo.
//
// Cinco consultas en paralelo:
//  1. GetOverview          → totales y rango de fechas
//  2. GetDepartmentTotals  → consumo por departamento
//  3. GetMonthlyTotals     → serie mensual
//  4. GetTopItems          → ranking de artículos
//  5. GetCategoryTotals    → consumo por categoría
func (uc *UseCase) Summary(ctx context.Context, q dto.UsageQuery) (*dto.UsageSummaryResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	// ── Goroutines para paralelizar las 5 consultas DB ────────────────────────
	type overviewResult struct {
		overview *repository.UsageOverviewResult
		err      error
	}
	type departmentsResult struct {
		totals []repository.DepartmentTotalResult
		err    error
	}
	type monthlyResult struct {
		points []repository.MonthlyTotalResult
		err    error
	}
	type itemsResult struct {
		items []repository.ItemTotalResult
		err   error
	}
	type categoriesResult struct {
		totals []repository.CategoryTotalResult
		err    error
	}

	overviewCh := make(chan overviewResult, 1)
	departmentsCh := make(chan departmentsResult, 1)
	monthlyCh := make(chan monthlyResult, 1)
	itemsCh := make(chan itemsResult, 1)
	categoriesCh := make(chan categoriesResult, 1)

	go func() {
		ov, err := uc.statsRepo.GetOverview(ctx, filter)
		overviewCh <- overviewResult{ov, err}
	}()
	go func() {
		totals, err := uc.statsRepo.GetDepartmentTotals(ctx, filter)
		departmentsCh <- departmentsResult{totals, err}
	}()
	go func() {
		points, err := uc.statsRepo.GetMonthlyTotals(ctx, filter)
		monthlyCh <- monthlyResult{points, err}
	}()
	go func() {
		items, err := uc.statsRepo.GetTopItems(ctx, filter, summaryTopItems)
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		totals, err := uc.statsRepo.GetCategoryTotals(ctx, filter)
		categoriesCh <- categoriesResult{totals, err}
	}()

	ov := <-overviewCh
	deps := <-departmentsCh
	months := <-monthlyCh
	tops := <-itemsCh
	cats := <-categoriesCh

	if ov.err != nil {
		return nil, fmt.Errorf("resumen: general: %w", ov.err)
	}
	if deps.err != nil {
		return nil, fmt.Errorf("resumen: departamentos: %w", deps.err)
	}
	if months.err != nil {
		return nil, fmt.Errorf("resumen: serie mensual: %w", months.err)
	}
	if tops.err != nil {
		return nil, fmt.Errorf("resumen: top artículos: %w", tops.err)
	}
	if cats.err != nil {
		return nil, fmt.Errorf("resumen: categorías: %w", cats.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	total := ov.overview.TotalQuantity
	resp := &dto.UsageSummaryResponse{
		Overview: dto.UsageOverviewDTO{
			TotalQuantity: total,
			UniqueItems:   ov.overview.UniqueItems,
			RecordCount:   ov.overview.RecordCount,
			FirstDate:     ov.overview.FirstDate,
			LastDate:      ov.overview.LastDate,
		},
		Departments: make([]dto.DepartmentShareDTO, 0, len(deps.totals)),
		Monthly:     make([]dto.MonthlyPointDTO, 0, len(months.points)),
		TopItems:    make([]dto.TopItemDTO, 0, len(tops.items)),
		Categories:  make([]dto.CategoryShareDTO, 0, len(cats.totals)),
	}

	for _, d := range deps.totals {
		resp.Departments = append(resp.Departments, dto.DepartmentShareDTO{
			Department:    d.Department,
			TotalQuantity: d.TotalQuantity,
			RecordCount:   d.RecordCount,
			Share:         share(d.TotalQuantity, total),
		})
	}
	for _, m := range months.points {
		resp.Monthly = append(resp.Monthly, dto.MonthlyPointDTO{
			Month:         m.Month.Format(monthLayout),
			TotalQuantity: m.TotalQuantity,
		})
	}
	for _, item := range tops.items {
		resp.TopItems = append(resp.TopItems, dto.TopItemDTO{
			ItemName:      item.ItemName,
			TotalQuantity: item.TotalQuantity,
			RecordCount:   item.RecordCount,
		})
	}
	for _, c := range cats.totals {
		resp.Categories = append(resp.Categories, dto.CategoryShareDTO{
			Category:      c.Category,
			TotalQuantity: c.TotalQuantity,
			Share:         share(c.TotalQuantity, total),
		})
	}
	return resp, nil
}

// Records devuelve una página del histórico filtrado, fecha descendente.
func (uc *UseCase) Records(ctx context.Context, q dto.UsageQuery, page dto.PageRequest) (*dto.RecordsResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()

	records, err := uc.statsRepo.ListRecent(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar registros: %w", err)
	}

	rows := make([]dto.CheckoutRecordDTO, 0, len(records))
	for _, r := range records {
		rows = append(rows, dto.CheckoutRecordDTO{
			ID:         r.ID,
			Date:       r.Date,
			ItemSerial: r.ItemSerial,
			ItemName:   r.ItemName,
			Department: r.Department,
			IssuedTo:   r.IssuedTo,
			Quantity:   r.Quantity,
			Unit:       r.Unit,
			Category:   r.Category,
			Reference:  r.Reference,
			Store:      r.Store,
		})
	}
	return &dto.RecordsResponse{
		Records: rows,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Items devuelve el catálogo de nombres de artículo para los selectores.
func (uc *UseCase) Items(ctx context.Context) (*dto.CatalogResponse, error) {
	values, err := uc.statsRepo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo de artículos: %w", err)
	}
	return &dto.CatalogResponse{Values: values}, nil
}

// Departments devuelve el catálogo de departamentos.
func (uc *UseCase) Departments(ctx context.Context) (*dto.CatalogResponse, error) {
	values, err := uc.statsRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo de departamentos: %w", err)
	}
	return &dto.CatalogResponse{Values: values}, nil
}

// Categories devuelve el catálogo de categorías.
func (uc *UseCase) Categories(ctx context.Context) (*dto.CatalogResponse, error) {
	values, err := uc.statsRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo de categorías: %w", err)
	}
	return &dto.CatalogResponse{Values: values}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildFilter convierte los query params en el filtro del repositorio.
// Las fechas llegan como YYYY-MM-DD; 'to' es inclusivo y cubre el día entero.
func buildFilter(q dto.UsageQuery) (repository.UsageFilter, error) {
	var f repository.UsageFilter

	if s := strings.TrimSpace(q.From); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, fmt.Errorf("%w: fecha 'from' inválida: %s", domain.ErrInvalidInput, s)
		}
		f.From = &t
	}
	if s := strings.TrimSpace(q.To); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, fmt.Errorf("%w: fecha 'to' inválida: %s", domain.ErrInvalidInput, s)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}

	f.Departments = cleanList(q.Departments)
	f.Items = cleanList(q.Items)
	f.Categories = cleanList(q.Categories)
	return f, nil
}

// cleanList descarta entradas vacías y devuelve nil si no queda ninguna.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// share calcula la participación porcentual de part sobre total, a 2 decimales.
func share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(2)
}
