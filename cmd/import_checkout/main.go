// import_checkout carga el histórico de salidas (hoja CHECK_OUT) en PostgreSQL,
// leyendo desde Google Sheets o desde un archivo CSV exportado.
//
// Uso: go run ./cmd/import_checkout [flags]
// Sin flags lee la planilla configurada (SHEETS_SPREADSHEET_ID / SHEETS_READ_RANGE).
//
//	-csv ruta    importa desde un CSV en lugar de Google Sheets
//	-latin1      re-decodifica el CSV desde ISO-8859-1 (exportes de Excel)
//	-replace     reemplaza todo el histórico en una transacción (default: agrega)
//	-dry-run     normaliza y reporta sin escribir en la base
//
// Las filas con fecha o cantidad no interpretables, cantidad negativa, o sin
// artículo/departamento se descartan y se cuentan: el motor de asignación
// asume un histórico ya saneado.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
	"github.com/jhoicas/Asignacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Asignacion-api/internal/infrastructure/sheets"
	"github.com/jhoicas/Asignacion-api/pkg/config"
	"github.com/jhoicas/Asignacion-api/pkg/logger"
)

// Posiciones de columna de la hoja CHECK_OUT (orden de la planilla original).
// WEEK es una columna derivada de la planilla y no se almacena: los cortes por
// período se calculan en SQL al consultar.
const (
	colDate = iota
	colItemSerial
	colItemName
	colDepartment
	colIssuedTo
	colQuantity
	colUnit
	colCategory
	colWeek // ignorada
	colReference
	colDepartmentCat
	colBatchNumber
	colStore
	colReceivedBy

	columnCount
)

// dateLayouts formatos de fecha aceptados en la planilla, en orden de prueba.
// La planilla usa día primero en los formatos con barra.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
}

// importStats contadores de la normalización, para el resumen final.
type importStats struct {
	Read        int // filas de datos leídas (sin cabecera)
	Imported    int
	BadDate     int
	BadQuantity int
	Negative    int
	Incomplete  int
}

func main() {
	var (
		csvPath = flag.String("csv", "", "ruta a un CSV exportado; vacío = leer Google Sheets")
		latin1  = flag.Bool("latin1", false, "re-decodificar el CSV desde ISO-8859-1")
		replace = flag.Bool("replace", false, "reemplazar todo el histórico en una transacción")
		dryRun  = flag.Bool("dry-run", false, "normalizar y reportar sin escribir en la base")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()

	var rows [][]string
	if *csvPath != "" {
		rows, err = readCSVRows(*csvPath, *latin1)
	} else {
		rows, err = readSheetRows(ctx, cfg.Sheets)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("leer el origen de datos")
	}
	if len(rows) == 0 {
		log.Fatal().Msg("el origen no tiene filas")
	}

	// La primera fila es la cabecera de la planilla.
	records, stats := normalizeRows(rows[1:])
	log.Info().
		Int("filas", stats.Read).
		Int("validas", stats.Imported).
		Int("fecha_invalida", stats.BadDate).
		Int("cantidad_invalida", stats.BadQuantity).
		Int("cantidad_negativa", stats.Negative).
		Int("incompletas", stats.Incomplete).
		Msg("normalización terminada")

	if *dryRun {
		log.Info().Msg("dry-run: no se escribe en la base")
		return
	}
	if len(records) == 0 && !*replace {
		log.Fatal().Msg("ninguna fila válida para importar")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	repo := postgres.NewCheckoutRecordRepository(pool)

	var inserted int64
	if *replace {
		inserted, err = repo.ReplaceAll(ctx, records)
	} else {
		inserted, err = repo.BulkInsert(ctx, records)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("escribir el histórico")
	}

	total, err := repo.CountAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("contar registros")
	}
	log.Info().
		Int64("insertados", inserted).
		Int64("total_en_tabla", total).
		Bool("replace", *replace).
		Msg("importación terminada")
}

// readCSVRows lee el archivo completo como matriz de celdas. Con latin1 el
// contenido se re-decodifica desde ISO-8859-1 antes de parsear.
func readCSVRows(path string, latin1 bool) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if latin1 {
		reader = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1 // la planilla trae filas de largo irregular
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear CSV: %w", err)
	}
	return rows, nil
}

// readSheetRows descarga el rango configurado y convierte cada celda a texto.
func readSheetRows(ctx context.Context, cfg config.SheetsConfig) ([][]string, error) {
	reader, err := sheets.NewCheckoutReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	raw, err := reader.ReadRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(raw))
	for _, cells := range raw {
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			row = append(row, cellString(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellString normaliza una celda de la API de Sheets a texto plano.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// normalizeRows convierte las filas crudas en entidades listas para insertar,
// descartando y contando las que no cumplen las invariantes del histórico.
func normalizeRows(rows [][]string) ([]entity.CheckoutRecord, importStats) {
	var stats importStats
	records := make([]entity.CheckoutRecord, 0, len(rows))

	for _, raw := range rows {
		stats.Read++
		row := padRow(raw)

		date, ok := parseDate(row[colDate])
		if !ok {
			stats.BadDate++
			continue
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(row[colQuantity]))
		if err != nil {
			stats.BadQuantity++
			continue
		}
		if quantity.IsNegative() {
			stats.Negative++
			continue
		}

		serial := strings.TrimSpace(row[colItemSerial])
		name := strings.TrimSpace(row[colItemName])
		department := strings.TrimSpace(row[colDepartment])
		// Sin identidad de artículo o sin departamento la fila nunca puede
		// participar de un reparto.
		if (serial == "" && name == "") || department == "" {
			stats.Incomplete++
			continue
		}

		records = append(records, entity.CheckoutRecord{
			Date:               date,
			ItemSerial:         serial,
			ItemName:           name,
			Department:         department,
			DepartmentCategory: strings.TrimSpace(row[colDepartmentCat]),
			IssuedTo:           strings.TrimSpace(row[colIssuedTo]),
			Quantity:           quantity,
			Unit:               strings.TrimSpace(row[colUnit]),
			Category:           strings.TrimSpace(row[colCategory]),
			Reference:          strings.TrimSpace(row[colReference]),
			BatchNumber:        strings.TrimSpace(row[colBatchNumber]),
			Store:              strings.TrimSpace(row[colStore]),
			ReceivedBy:         strings.TrimSpace(row[colReceivedBy]),
		})
		stats.Imported++
	}
	return records, stats
}

// padRow completa con celdas vacías las filas cortas, hasta columnCount.
func padRow(row []string) []string {
	if len(row) >= columnCount {
		return row
	}
	padded := make([]string, columnCount)
	copy(padded, row)
	return padded
}

// parseDate intenta los formatos aceptados en orden.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
