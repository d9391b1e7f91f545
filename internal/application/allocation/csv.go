package allocation

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Asignacion-api/internal/domain"
	engine "github.com/jhoicas/Asignacion-api/internal/domain/allocation"
)

// csvHeader cabecera del archivo exportado. Va en inglés porque las planillas
// CHECK_OUT de origen usan encabezados en inglés.
var csvHeader = []string{"Department", "Proportion (%)", "Allocated Quantity"}

// ExportCSV calcula el reparto de un artículo y lo serializa como CSV listo
// para descargar.
//
// Retorna:
//   - (data, filename, nil)       si todo sale bien.
//   - domain.ErrNoUsageHistory    si el artículo no registra consumo.
//   - domain.ErrZeroUsage         si el consumo del período es cero.
//   - domain.ErrInvalidInput      si el identificador o la cantidad no sirven.
func (uc *UseCase) ExportCSV(
	ctx context.Context,
	identifier string,
	quantity decimal.Decimal,
	department string,
) (data []byte, filename string, err error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, "", fmt.Errorf("%w: identificador de artículo vacío", domain.ErrInvalidInput)
	}

	records, _, err := uc.snapshot(ctx)
	if err != nil {
		return nil, "", err
	}

	props, err := engine.CalculateProportions(records,
		engine.IdentifierFromString(identifier), department, uc.params.MinProportionPct)
	if err != nil {
		return nil, "", err
	}
	rows, err := engine.AllocateQuantity(props, quantity)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("csv: escribir cabecera: %w", err)
	}
	for _, row := range rows {
		cells := []string{
			row.Department,
			row.Proportion.StringFixed(2),
			strconv.FormatInt(row.Quantity, 10),
		}
		if err := w.Write(cells); err != nil {
			return nil, "", fmt.Errorf("csv: escribir fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("csv: %w", err)
	}

	filename = fmt.Sprintf("asignacion_%s.csv", slugify(identifier))
	return buf.Bytes(), filename, nil
}

// slugify normaliza el identificador para usarlo como nombre de archivo.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
