// Package reports genera el informe PDF del cálculo de asignación.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Asignacion-api/internal/application/dto"
)

// UseCase compone el cálculo de reparto con el generador PDF.
type UseCase struct {
	calculator AllocationCalculator
	generator  AllocationReportGenerator
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(calculator AllocationCalculator, generator AllocationReportGenerator) *UseCase {
	return &UseCase{calculator: calculator, generator: generator}
}

// DownloadAllocationPDF corre el cálculo del lote y genera el informe.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrInvalidInput     si el lote no pasa la validación del cálculo.
func (uc *UseCase) DownloadAllocationPDF(
	ctx context.Context,
	req dto.AllocationRequest,
) (pdfBytes []byte, filename string, err error) {
	result, err := uc.calculator.Calculate(ctx, req)
	if err != nil {
		return nil, "", err
	}

	report := &AllocationReport{
		Department:  result.Department,
		GeneratedAt: time.Now(),
		SnapshotAt:  result.SnapshotAt,
		Results:     result.Results,
	}
	pdfBytes, err = uc.generator.GenerateAllocationPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("asignacion_%s.pdf", report.GeneratedAt.Format("20060102_150405"))
	return pdfBytes, filename, nil
}
