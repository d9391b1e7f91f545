package reports

import (
	"context"
	"time"

	"github.com/jhoicas/Asignacion-api/internal/application/dto"
)

// AllocationCalculator corre el cálculo de reparto por lote.
// Lo implementa allocation.UseCase.
type AllocationCalculator interface {
	Calculate(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResponse, error)
}

// AllocationReportGenerator produce la representación PDF de un cálculo de
// asignación. La implementación vive en infrastructure/pdf.
type AllocationReportGenerator interface {
	GenerateAllocationPDF(ctx context.Context, report *AllocationReport) ([]byte, error)
}

// AllocationReport datos listos para renderizar: los resultados del cálculo
// más los metadatos del encabezado.
type AllocationReport struct {
	Department  string // vacío = todos los departamentos
	GeneratedAt time.Time
	SnapshotAt  time.Time
	Results     []dto.AllocationItemResult
}
