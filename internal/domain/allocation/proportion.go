// Package allocation implementa el motor de asignación de insumos: calcula la
// distribución porcentual del consumo histórico de un artículo entre
// departamentos (CalculateProportions) y reparte una cantidad disponible según
// esa distribución (AllocateQuantity). Las funciones son puras y deterministas:
// mismo histórico, mismo resultado.
package allocation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/domain"
	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// AllDepartments es el centinela del filtro de departamento: equivale a no
// filtrar.
const AllDepartments = "All Departments"

// DefaultMinProportionPct es el umbral por defecto (en puntos porcentuales)
// bajo el cual un departamento se descarta del reparto.
var DefaultMinProportionPct = decimal.NewFromFloat(0.1)

var hundred = decimal.NewFromInt(100)

// ProportionRow es la participación de un departamento en el consumo histórico
// de un artículo. Quantity es el consumo agregado del período y Proportion el
// porcentaje ya renormalizado (las filas de un resultado suman 100).
type ProportionRow struct {
	Department string
	Quantity   decimal.Decimal
	Proportion decimal.Decimal
}

// CalculateProportions calcula cómo se distribuye el consumo de un artículo
// entre departamentos a partir del histórico de salidas.
//
// Reglas:
//  1. Se filtra por identificador y, si department no es vacío ni el centinela
//     AllDepartments, por departamento (comparación sin distinguir mayúsculas).
//     Sin coincidencias retorna ErrNoUsageHistory.
//  2. Se agrupa sumando cantidades por departamento. El orden base del agregado
//     es nombre de departamento ascendente; el primer nombre visto conserva su
//     grafía original.
//  3. Si el total agrupado es cero retorna ErrZeroUsage.
//  4. Proporción = cantidad * 100 / total.
//  5. Departamentos con proporción < minPct se descartan. Si todos quedan por
//     debajo del umbral sobrevive solo el de mayor proporción (en empate, el
//     primero del orden base).
//  6. Las proporciones sobrevivientes se renormalizan para volver a sumar 100.
//  7. Orden final: proporción descendente, estable sobre el orden base.
func CalculateProportions(records []entity.CheckoutRecord, ident ItemIdentifier, department string, minPct decimal.Decimal) ([]ProportionRow, error) {
	filterDept := department != "" && !strings.EqualFold(department, AllDepartments)

	totals := make(map[string]decimal.Decimal)
	labels := make(map[string]string)
	keys := make([]string, 0)
	for _, r := range records {
		if !ident.Matches(r) {
			continue
		}
		if filterDept && !strings.EqualFold(r.Department, department) {
			continue
		}
		key := strings.ToLower(r.Department)
		if _, ok := totals[key]; !ok {
			totals[key] = decimal.Zero
			labels[key] = r.Department
			keys = append(keys, key)
		}
		totals[key] = totals[key].Add(r.Quantity)
	}
	if len(keys) == 0 {
		return nil, domain.ErrNoUsageHistory
	}
	sort.Strings(keys)

	total := decimal.Zero
	for _, k := range keys {
		total = total.Add(totals[k])
	}
	if total.IsZero() {
		return nil, domain.ErrZeroUsage
	}

	rows := make([]ProportionRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, ProportionRow{
			Department: labels[k],
			Quantity:   totals[k],
			Proportion: totals[k].Div(total).Mul(hundred),
		})
	}

	kept := make([]ProportionRow, 0, len(rows))
	for _, row := range rows {
		if row.Proportion.GreaterThanOrEqual(minPct) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		// Todos por debajo del umbral: el reparto degenera al departamento
		// dominante en lugar de quedar vacío.
		max := rows[0]
		for _, row := range rows[1:] {
			if row.Proportion.GreaterThan(max.Proportion) {
				max = row
			}
		}
		kept = append(kept, max)
	}

	sum := decimal.Zero
	for _, row := range kept {
		sum = sum.Add(row.Proportion)
	}
	for i := range kept {
		kept[i].Proportion = kept[i].Proportion.Mul(hundred).Div(sum)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Proportion.GreaterThan(kept[j].Proportion)
	})
	return kept, nil
}
