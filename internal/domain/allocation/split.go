package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/domain"
)

// AllocationRow es la cantidad entera asignada a un departamento junto con la
// proporción que la originó.
type AllocationRow struct {
	Department string
	Proportion decimal.Decimal
	Quantity   int64
}

// AllocateQuantity reparte available entre los departamentos en proporción a
// su participación histórica. Cada fila se redondea a entero con la regla
// "mitad hacia arriba" y la diferencia entre lo repartido y lo disponible se
// aplica completa a la fila de mayor cantidad asignada (en empate, la primera
// según el orden de entrada), de modo que para available entero la suma del
// reparto es exactamente available.
//
// La corrección no se recorta: en casos degenerados la fila mayor puede quedar
// negativa; la suma exacta tiene prioridad. El orden de entrada se conserva en
// la salida. Para available fraccionario la diferencia se trunca a entero, así
// que la garantía de suma exacta aplica solo a cantidades enteras.
func AllocateQuantity(rows []ProportionRow, available decimal.Decimal) ([]AllocationRow, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNoUsageHistory
	}
	if available.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad disponible no puede ser negativa", domain.ErrInvalidInput)
	}

	out := make([]AllocationRow, len(rows))
	allocated := decimal.Zero
	for i, row := range rows {
		raw := row.Proportion.Div(hundred).Mul(available)
		rounded := raw.Round(0) // mitad hacia arriba para valores no negativos
		out[i] = AllocationRow{
			Department: row.Department,
			Proportion: row.Proportion,
			Quantity:   rounded.IntPart(),
		}
		allocated = allocated.Add(rounded)
	}

	if diff := available.Sub(allocated).IntPart(); diff != 0 {
		largest := 0
		for i := 1; i < len(out); i++ {
			if out[i].Quantity > out[largest].Quantity {
				largest = i
			}
		}
		out[largest].Quantity += diff
	}
	return out, nil
}
