package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageQuery filtros comunes de los endpoints de consumo (query params).
// Las listas aceptan el parámetro repetido: ?departments=Kitchen&departments=Bar
type UsageQuery struct {
	From        string   `query:"from"` // YYYY-MM-DD
	To          string   `query:"to"`   // YYYY-MM-DD
	Departments []string `query:"departments"`
	Items       []string `query:"items"`
	Categories  []string `query:"categories"`
}

// UsageOverviewDTO resumen general del histórico filtrado.
type UsageOverviewDTO struct {
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"number"`
	UniqueItems   int64           `json:"unique_items"`
	RecordCount   int64           `json:"record_count"`
	FirstDate     *time.Time      `json:"first_date,omitempty"`
	LastDate      *time.Time      `json:"last_date,omitempty"`
}

// DepartmentShareDTO consumo de un departamento y su participación porcentual.
type DepartmentShareDTO struct {
	Department    string          `json:"department"`
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"number"`
	RecordCount   int64           `json:"record_count"`
	Share         decimal.Decimal `json:"share" swaggertype:"number"` // % del total filtrado, 2 decimales
}

// MonthlyPointDTO punto de la serie mensual de consumo.
type MonthlyPointDTO struct {
	Month         string          `json:"month"` // YYYY-MM
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"number"`
}

// TopItemDTO artículo del ranking de consumo.
type TopItemDTO struct {
	ItemName      string          `json:"item_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"number"`
	RecordCount   int64           `json:"record_count"`
}

// CategoryShareDTO consumo de una categoría y su participación porcentual.
type CategoryShareDTO struct {
	Category      string          `json:"category"`
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"number"`
	Share         decimal.Decimal `json:"share" swaggertype:"number"`
}

// UsageSummaryResponse salida de GET /api/usage/summary: el tablero completo
// de consumo en una sola respuesta.
type UsageSummaryResponse struct {
	Overview    UsageOverviewDTO     `json:"overview"`
	Departments []DepartmentShareDTO `json:"departments"`
	Monthly     []MonthlyPointDTO    `json:"monthly"`
	TopItems    []TopItemDTO         `json:"top_items"`
	Categories  []CategoryShareDTO   `json:"categories"`
}

// CheckoutRecordDTO fila del histórico para el listado de registros.
type CheckoutRecordDTO struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	ItemSerial string          `json:"item_serial,omitempty"`
	ItemName   string          `json:"item_name"`
	Department string          `json:"department"`
	IssuedTo   string          `json:"issued_to,omitempty"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"number"`
	Unit       string          `json:"unit,omitempty"`
	Category   string          `json:"category,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Store      string          `json:"store,omitempty"`
}

// RecordsResponse salida de GET /api/usage/records.
type RecordsResponse struct {
	Records []CheckoutRecordDTO `json:"records"`
	Page    PageResponse        `json:"page"`
}
