package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appallocation "github.com/jhoicas/Asignacion-api/internal/application/allocation"
	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Asignacion-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubSnapshot implementa allocation.SnapshotSource en memoria y cuenta cuántas
// veces se recargó la foto (para verificar el caché).
type stubSnapshot struct {
	records []entity.CheckoutRecord
	loads   int
}

func (s *stubSnapshot) Snapshot(_ context.Context, _ time.Time) ([]entity.CheckoutRecord, error) {
	s.loads++
	return s.records, nil
}

// allocationFixture histórico de ejemplo: "Harina de Trigo" (serial 123) con
// consumo Kitchen 700 (en dos salidas), Bar 250 y Storage 50, más un artículo
// distinto que el filtro por identificador debe ignorar.
func allocationFixture() []entity.CheckoutRecord {
	day := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	qty := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return []entity.CheckoutRecord{
		{ID: "r1", Date: day, ItemSerial: "123", ItemName: "Harina de Trigo", Department: "Kitchen", Quantity: qty(400)},
		{ID: "r2", Date: day.AddDate(0, 1, 0), ItemSerial: "123", ItemName: "Harina de Trigo", Department: "Kitchen", Quantity: qty(300)},
		{ID: "r3", Date: day, ItemSerial: "123", ItemName: "Harina de Trigo", Department: "Bar", Quantity: qty(250)},
		{ID: "r4", Date: day, ItemSerial: "123", ItemName: "Harina de Trigo", Department: "Storage", Quantity: qty(50)},
		{ID: "r5", Date: day, ItemSerial: "555", ItemName: "Azúcar", Department: "Kitchen", Quantity: qty(100)},
	}
}

// buildAllocationApp monta los endpoints de asignación sobre un caso de uso
// real alimentado por el stub (sin base de datos y sin middlewares de auth,
// que ya tienen sus propios tests).
func buildAllocationApp(records []entity.CheckoutRecord) (*fiber.App, *appallocation.UseCase, *stubSnapshot) {
	source := &stubSnapshot{records: records}
	uc := appallocation.NewUseCase(source, appallocation.Params{})
	handler := apphttp.NewAllocationHandler(uc, nil)

	app := fiber.New()
	app.Post("/api/allocations/calculate", handler.Calculate)
	app.Get("/api/allocations/proportions", handler.Proportions)
	app.Get("/api/allocations/export", handler.Export)
	return app, uc, source
}

// postCalculate lanza POST /api/allocations/calculate con el cuerpo dado.
func postCalculate(t *testing.T, app *fiber.App, body dto.AllocationRequest) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/allocations/calculate", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeAllocation(t *testing.T, resp *http.Response) dto.AllocationResponse {
	t.Helper()
	var out dto.AllocationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/allocations/calculate
// ──────────────────────────────────────────────────────────────────────────────

// Con el histórico 700/250/50 las proporciones quedan 70/25/5 y repartir 10
// da 7.0/2.5/0.5 → redondeado 7/3/1 (suma 11) → la fila mayor absorbe el -1:
// Kitchen 6, Bar 3, Storage 1.
func TestAllocationCalculate_VectorConocido(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	resp := postCalculate(t, app, dto.AllocationRequest{
		Items: []dto.AllocationItemRequest{{Identifier: "123", Quantity: decimal.NewFromInt(10)}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAllocation(t, resp)
	assert.False(t, out.SnapshotAt.IsZero(), "la respuesta debe indicar la foto usada")
	require.Len(t, out.Results, 1)

	got := out.Results[0]
	require.True(t, got.Found, "el artículo 123 tiene historial: %s", got.Message)
	assert.Equal(t, int64(10), got.TotalAllocated, "el reparto debe sumar exactamente lo disponible")
	assert.Equal(t, 3, got.Departments)

	require.Len(t, got.Rows, 3)
	wantDepts := []string{"Kitchen", "Bar", "Storage"}
	wantProps := []int64{70, 25, 5}
	wantQtys := []int64{6, 3, 1}
	for i, row := range got.Rows {
		assert.Equal(t, wantDepts[i], row.Department)
		assert.True(t, row.Proportion.Equal(decimal.NewFromInt(wantProps[i])),
			"proporción de %s: esperada %d, llegó %s", row.Department, wantProps[i], row.Proportion)
		assert.Equal(t, wantQtys[i], row.Quantity)
	}
}

// Una línea sin historial no tumba el lote: se reporta found=false en su
// posición y el resto se calcula normal.
func TestAllocationCalculate_ArticuloSinHistorialNoTumbaElLote(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	resp := postCalculate(t, app, dto.AllocationRequest{
		Items: []dto.AllocationItemRequest{
			{Identifier: "123", Quantity: decimal.NewFromInt(10)},
			{Identifier: "999", Quantity: decimal.NewFromInt(5)},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAllocation(t, resp)
	require.Len(t, out.Results, 2)
	assert.True(t, out.Results[0].Found)
	assert.False(t, out.Results[1].Found, "el serial 999 no registra salidas")
	assert.NotEmpty(t, out.Results[1].Message)
	assert.Empty(t, out.Results[1].Rows)
}

// El filtro de departamento aplica a todo el lote; "All Departments" equivale
// a no filtrar y no se ecoa en la respuesta.
func TestAllocationCalculate_FiltroDepartamento(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	resp := postCalculate(t, app, dto.AllocationRequest{
		Department: "Kitchen",
		Items:      []dto.AllocationItemRequest{{Identifier: "123", Quantity: decimal.NewFromInt(10)}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAllocation(t, resp)
	assert.Equal(t, "Kitchen", out.Department)
	require.Len(t, out.Results, 1)
	require.True(t, out.Results[0].Found)
	require.Len(t, out.Results[0].Rows, 1, "con filtro Kitchen solo participa Kitchen")
	assert.True(t, out.Results[0].Rows[0].Proportion.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(10), out.Results[0].Rows[0].Quantity)

	resp2 := postCalculate(t, app, dto.AllocationRequest{
		Department: "All Departments",
		Items:      []dto.AllocationItemRequest{{Identifier: "123", Quantity: decimal.NewFromInt(10)}},
	})
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	out2 := decodeAllocation(t, resp2)
	assert.Empty(t, out2.Department, "All Departments no debe ecoar el filtro")
	require.Len(t, out2.Results, 1)
	assert.Len(t, out2.Results[0].Rows, 3)
}

func TestAllocationCalculate_LoteVacioRetorna400(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	resp := postCalculate(t, app, dto.AllocationRequest{})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestAllocationCalculate_LoteExcedeMaximoRetorna400(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	items := make([]dto.AllocationItemRequest, 11)
	for i := range items {
		items[i] = dto.AllocationItemRequest{Identifier: strconv.Itoa(i + 1), Quantity: decimal.NewFromInt(1)}
	}
	resp := postCalculate(t, app, dto.AllocationRequest{Items: items})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestAllocationCalculate_CantidadNegativaRetorna400(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	resp := postCalculate(t, app, dto.AllocationRequest{
		Items: []dto.AllocationItemRequest{{Identifier: "123", Quantity: decimal.NewFromInt(-4)}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

// La foto del histórico se carga una sola vez dentro del TTL; Refresh la
// invalida y el siguiente cálculo recarga.
func TestAllocationCalculate_ReutilizaLaFotoHastaRefresh(t *testing.T) {
	app, uc, source := buildAllocationApp(allocationFixture())
	body := dto.AllocationRequest{
		Items: []dto.AllocationItemRequest{{Identifier: "123", Quantity: decimal.NewFromInt(10)}},
	}

	for i := 0; i < 3; i++ {
		resp := postCalculate(t, app, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Equal(t, 1, source.loads, "tres cálculos dentro del TTL deben compartir una sola carga")

	uc.Refresh()
	resp := postCalculate(t, app, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 2, source.loads, "después de Refresh debe recargarse la foto")
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/allocations/proportions
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocationProportions_PorNombreCaseInsensitive(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	q := url.Values{"identifier": {"harina de trigo"}}
	req := httptest.NewRequest(http.MethodGet, "/api/allocations/proportions?"+q.Encode(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ProportionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "harina de trigo", out.Identifier)

	require.Len(t, out.Rows, 3)
	assert.Equal(t, "Kitchen", out.Rows[0].Department, "orden descendente por proporción")
	assert.True(t, out.Rows[0].Proportion.Equal(decimal.NewFromInt(70)))
	assert.True(t, out.Rows[0].Quantity.Equal(decimal.NewFromInt(700)), "Kitchen agrega sus dos salidas")
	assert.Equal(t, "Storage", out.Rows[2].Department)
}

func TestAllocationProportions_SinIdentifierRetorna400(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	req := httptest.NewRequest(http.MethodGet, "/api/allocations/proportions", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestAllocationProportions_SinHistorialRetorna404(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	req := httptest.NewRequest(http.MethodGet, "/api/allocations/proportions?identifier=999", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_USAGE_HISTORY", decodeError(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/allocations/export
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocationExport_DescargaCSV(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	req := httptest.NewRequest(http.MethodGet, "/api/allocations/export?identifier=123&quantity=10", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="asignacion_123.csv"`)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, "cabecera + una fila por departamento")
	assert.Equal(t, "Department,Proportion (%),Allocated Quantity", lines[0])
	assert.Equal(t, "Kitchen,70.00,6", lines[1])
	assert.Equal(t, "Bar,25.00,3", lines[2])
	assert.Equal(t, "Storage,5.00,1", lines[3])
}

func TestAllocationExport_CantidadInvalidaRetorna400(t *testing.T) {
	app, _, _ := buildAllocationApp(allocationFixture())

	req := httptest.NewRequest(http.MethodGet, "/api/allocations/export?identifier=123&quantity=diez", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}
