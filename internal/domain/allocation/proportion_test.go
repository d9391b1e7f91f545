package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Asignacion-api/internal/domain"
	"github.com/jhoicas/Asignacion-api/internal/domain/allocation"
	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCalculateProportions valida el cálculo de participación por departamento
// sobre un histórico conocido:
//
//	Harina de Trigo (serial 1001): Kitchen 700, Bar 250, Storage 50
//	→ total 1000 → 70% / 25% / 5%, orden descendente
//
// Cualquier cambio en el filtrado, la agregación, el umbral o la
// renormalización rompe este vector de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testItemName    = "Harina de Trigo"
	testItemSerial  = "1001"
	testOtherName   = "Azúcar Morena"
	testOtherSerial = "2002"
)

var testDate = time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

func TestCalculateProportions_VectorExacto(t *testing.T) {
	rows, err := allocation.CalculateProportions(
		buildHistorial(),
		allocation.NameIdentifier(testItemName),
		allocation.AllDepartments,
		allocation.DefaultMinProportionPct,
	)
	require.NoError(t, err, "un histórico con consumo no debe retornar error")
	require.Len(t, rows, 3)

	assert.Equal(t, "Kitchen", rows[0].Department)
	assert.Equal(t, "70", rows[0].Proportion.String(), "Kitchen consume 700 de 1000")
	assert.Equal(t, "700", rows[0].Quantity.String())

	assert.Equal(t, "Bar", rows[1].Department)
	assert.Equal(t, "25", rows[1].Proportion.String(), "Bar consume 250 de 1000")

	assert.Equal(t, "Storage", rows[2].Department)
	assert.Equal(t, "5", rows[2].Proportion.String(), "Storage consume 50 de 1000")
}

// TestCalculateProportions_SumaCien verifica que las proporciones siempre suman
// 100 (tolerancia 1e-6) incluso con cantidades que no dividen exacto.
func TestCalculateProportions_SumaCien(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Kitchen", "3"),
		record("Bar", "7"),
		record("Storage", "11"),
		record("Pastry", "13"),
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Proportion)
	}
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 1e-6,
		"las proporciones renormalizadas deben sumar 100")
}

// TestCalculateProportions_PorNombreSinMayusculas verifica que el nombre del
// artículo se compara sin distinguir mayúsculas y minúsculas.
func TestCalculateProportions_PorNombreSinMayusculas(t *testing.T) {
	rows, err := allocation.CalculateProportions(buildHistorial(),
		allocation.IdentifierFromString("harina DE trigo"), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err, "la búsqueda por nombre no distingue mayúsculas")
	assert.Len(t, rows, 3)
}

// TestCalculateProportions_PorSerial verifica que una entrada numérica se
// interpreta como serial y compara contra el serial, no contra el nombre.
func TestCalculateProportions_PorSerial(t *testing.T) {
	rows, err := allocation.CalculateProportions(buildHistorial(),
		allocation.IdentifierFromString(" 1001 "), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// El serial compara como texto: "01001" no es "1001".
	_, err = allocation.CalculateProportions(buildHistorial(),
		allocation.IdentifierFromString("01001"), "", allocation.DefaultMinProportionPct)
	assert.ErrorIs(t, err, domain.ErrNoUsageHistory,
		"seriales con ceros a la izquierda son seriales distintos")
}

// TestCalculateProportions_FiltroDepartamento verifica que el filtro de
// departamento restringe el histórico y deja al sobreviviente con el 100%.
func TestCalculateProportions_FiltroDepartamento(t *testing.T) {
	rows, err := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), "kitchen", allocation.DefaultMinProportionPct)
	require.NoError(t, err, "el filtro de departamento no distingue mayúsculas")
	require.Len(t, rows, 1)
	assert.Equal(t, "Kitchen", rows[0].Department)
	assert.Equal(t, "100", rows[0].Proportion.String())
}

// TestCalculateProportions_CentinelaEquivaleASinFiltro verifica que el valor
// "All Departments" produce el mismo resultado que no filtrar.
func TestCalculateProportions_CentinelaEquivaleASinFiltro(t *testing.T) {
	sinFiltro, err1 := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	conCentinela, err2 := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), allocation.AllDepartments, allocation.DefaultMinProportionPct)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, sinFiltro, conCentinela)
}

// TestCalculateProportions_AgrupaSinMayusculas verifica que "Kitchen" y
// "KITCHEN" agregan en un solo departamento con la primera grafía vista.
func TestCalculateProportions_AgrupaSinMayusculas(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Kitchen", "60"),
		record("KITCHEN", "20"),
		record("Bar", "20"),
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err)
	require.Len(t, rows, 2, "las grafías de un mismo departamento se agregan juntas")
	assert.Equal(t, "Kitchen", rows[0].Department)
	assert.Equal(t, "80", rows[0].Quantity.String())
}

// ── Resultados "no encontrado" ────────────────────────────────────────────────

func TestCalculateProportions_ErrorSiArticuloDesconocido(t *testing.T) {
	_, err := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier("Levadura"), "", allocation.DefaultMinProportionPct)
	assert.ErrorIs(t, err, domain.ErrNoUsageHistory,
		"un artículo sin historial debe reportar ErrNoUsageHistory")
}

func TestCalculateProportions_ErrorSiDepartamentoSinConsumo(t *testing.T) {
	_, err := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), "Laundry", allocation.DefaultMinProportionPct)
	assert.ErrorIs(t, err, domain.ErrNoUsageHistory,
		"artículo existente pero sin consumo en el departamento filtrado")
}

func TestCalculateProportions_ErrorSiConsumoCero(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Kitchen", "0"),
		record("Bar", "0"),
	}
	_, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	assert.ErrorIs(t, err, domain.ErrZeroUsage,
		"total cero no permite calcular proporciones")
}

func TestCalculateProportions_ErrorSiHistorialVacio(t *testing.T) {
	_, err := allocation.CalculateProportions(nil,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	assert.ErrorIs(t, err, domain.ErrNoUsageHistory)
}

// ── Umbral y renormalización ──────────────────────────────────────────────────

// TestCalculateProportions_UmbralDescarta verifica que un departamento bajo el
// umbral sale del reparto y el resto se renormaliza a 100.
func TestCalculateProportions_UmbralDescarta(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Kitchen", "989"),
		record("Bar", "10"),
		record("Storage", "1"), // 0.1% < umbral 0.5
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", decimal.NewFromFloat(0.5))
	require.NoError(t, err)
	require.Len(t, rows, 2, "Storage queda por debajo del umbral")

	sum := decimal.Zero
	for _, r := range rows {
		assert.NotEqual(t, "Storage", r.Department)
		sum = sum.Add(r.Proportion)
	}
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 1e-6,
		"después de descartar se renormaliza a 100")
}

// TestCalculateProportions_TodosBajoUmbral verifica el caso degenerado: si
// ningún departamento alcanza el umbral sobrevive solo el dominante, con 100%.
func TestCalculateProportions_TodosBajoUmbral(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Bar", "35"),
		record("Kitchen", "40"),
		record("Storage", "25"),
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.Len(t, rows, 1, "solo sobrevive el departamento dominante")
	assert.Equal(t, "Kitchen", rows[0].Department)
	assert.Equal(t, "100", rows[0].Proportion.String())
}

// TestCalculateProportions_TodosBajoUmbralEmpate verifica que en empate de
// proporción máxima gana el primero del orden base (alfabético).
func TestCalculateProportions_TodosBajoUmbralEmpate(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Storage", "50"),
		record("Bar", "50"),
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", decimal.NewFromInt(80))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bar", rows[0].Department, "en empate gana el primero del orden base")
}

// ── Orden y determinismo ──────────────────────────────────────────────────────

func TestCalculateProportions_OrdenDescendenteEstable(t *testing.T) {
	records := []entity.CheckoutRecord{
		record("Storage", "200"),
		record("Kitchen", "600"),
		record("Bar", "200"),
	}

	rows, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kitchen", rows[0].Department)
	assert.Equal(t, "Bar", rows[1].Department, "empate 20/20 conserva el orden base alfabético")
	assert.Equal(t, "Storage", rows[2].Department)
}

func TestCalculateProportions_Determinista(t *testing.T) {
	r1, err1 := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	r2, err2 := allocation.CalculateProportions(buildHistorial(),
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, r1, r2, "el mismo histórico siempre produce el mismo resultado")
}

// TestCalculateProportions_NoMutaElHistorial verifica que el cálculo es puro:
// el slice de entrada queda intacto.
func TestCalculateProportions_NoMutaElHistorial(t *testing.T) {
	records := buildHistorial()
	before := make([]entity.CheckoutRecord, len(records))
	copy(before, records)

	_, err := allocation.CalculateProportions(records,
		allocation.NameIdentifier(testItemName), "", allocation.DefaultMinProportionPct)
	require.NoError(t, err)
	assert.Equal(t, before, records, "el histórico de entrada no se modifica")
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buildHistorial arma el histórico del vector de referencia: Harina de Trigo
// con Kitchen 700 / Bar 250 / Storage 50, más ruido de otro artículo que el
// filtro debe excluir.
func buildHistorial() []entity.CheckoutRecord {
	return []entity.CheckoutRecord{
		record("Kitchen", "400"),
		record("Bar", "250"),
		record("Kitchen", "300"),
		record("Storage", "50"),
		{
			Date:       testDate,
			ItemSerial: testOtherSerial,
			ItemName:   testOtherName,
			Department: "Kitchen",
			Quantity:   decimal.NewFromInt(900),
			Unit:       "kg",
			Category:   "Dry Goods",
		},
	}
}

func record(department, quantity string) entity.CheckoutRecord {
	return entity.CheckoutRecord{
		Date:       testDate,
		ItemSerial: testItemSerial,
		ItemName:   testItemName,
		Department: department,
		Quantity:   decimal.RequireFromString(quantity),
		Unit:       "kg",
		Category:   "Dry Goods",
	}
}
