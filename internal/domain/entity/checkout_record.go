package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRecord representa una salida histórica de insumo hacia un departamento
// (una fila de la hoja CHECK_OUT). Es la materia prima del motor de asignación.
type CheckoutRecord struct {
	ID                 string
	Date               time.Time
	ItemSerial         string
	ItemName           string
	Department         string
	DepartmentCategory string
	IssuedTo           string
	Quantity           decimal.Decimal // siempre >= 0 después de la importación
	Unit               string
	Category           string
	Reference          string
	BatchNumber        string
	Store              string
	ReceivedBy         string
	CreatedAt          time.Time
}
