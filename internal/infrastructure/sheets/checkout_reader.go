// Package sheets lee la planilla CHECK_OUT desde Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jhoicas/Asignacion-api/pkg/config"
)

// CheckoutReader descarga los valores crudos de la hoja CHECK_OUT.
// La normalización a entidades ocurre en el importador, no acá.
type CheckoutReader struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewCheckoutReader crea el cliente de Sheets. Con CredentialsFile vacío usa
// Application Default Credentials.
func NewCheckoutReader(ctx context.Context, cfg config.SheetsConfig) (*CheckoutReader, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("sheets: SHEETS_SPREADSHEET_ID vacío")
	}

	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	if cred := strings.TrimSpace(cfg.CredentialsFile); cred != "" {
		opts = append(opts, option.WithCredentialsFile(cred))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: crear servicio: %w", err)
	}

	readRange := strings.TrimSpace(cfg.ReadRange)
	if readRange == "" {
		readRange = "CHECK_OUT"
	}
	return &CheckoutReader{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
	}, nil
}

// ReadRows devuelve todas las filas del rango configurado. La primera fila es
// la cabecera de la planilla.
func (r *CheckoutReader) ReadRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: leer rango %s: %w", r.readRange, err)
	}
	return resp.Values, nil
}
