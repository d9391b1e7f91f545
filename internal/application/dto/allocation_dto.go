package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationItemRequest una línea del lote: identificador de artículo (serial
// numérico o nombre) y cantidad disponible a repartir.
type AllocationItemRequest struct {
	Identifier string          `json:"identifier" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"number"`
}

// AllocationRequest entrada de POST /api/allocations/calculate.
// Department aplica a todas las líneas; vacío o "All Departments" = sin filtro.
type AllocationRequest struct {
	Department string                  `json:"department"`
	Items      []AllocationItemRequest `json:"items" validate:"required,min=1"`
}

// ProportionRowDTO participación histórica de un departamento.
type ProportionRowDTO struct {
	Department string          `json:"department"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"number"`   // consumo agregado del período
	Proportion decimal.Decimal `json:"proportion" swaggertype:"number"` // porcentaje, 2 decimales
}

// AllocationRowDTO fila del reparto final de un artículo.
type AllocationRowDTO struct {
	Department string          `json:"department"`
	Proportion decimal.Decimal `json:"proportion" swaggertype:"number"` // porcentaje, 2 decimales
	Quantity   int64           `json:"quantity"`                        // unidades enteras asignadas
}

// AllocationItemResult resultado de una línea del lote. Una línea sin
// historial no tumba el lote: Found=false y Message explican el porqué.
type AllocationItemResult struct {
	Identifier     string             `json:"identifier"`
	Found          bool               `json:"found"`
	Message        string             `json:"message,omitempty"`
	Available      decimal.Decimal    `json:"available" swaggertype:"number"`
	Rows           []AllocationRowDTO `json:"rows,omitempty"`
	TotalAllocated int64              `json:"total_allocated"`
	Departments    int                `json:"departments"`
}

// AllocationResponse salida de POST /api/allocations/calculate.
// SnapshotAt indica a qué foto del histórico corresponde el cálculo completo.
type AllocationResponse struct {
	Department string                 `json:"department,omitempty"`
	SnapshotAt time.Time              `json:"snapshot_at"`
	Results    []AllocationItemResult `json:"results"`
}

// ProportionsResponse salida de GET /api/allocations/proportions.
type ProportionsResponse struct {
	Identifier string             `json:"identifier"`
	Department string             `json:"department,omitempty"`
	Rows       []ProportionRowDTO `json:"rows"`
}
