package allocation

import (
	"context"
	"time"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// SnapshotSource entrega la foto del histórico sobre la que corre el motor.
// Lo cumple el repositorio de checkout_records; en tests, un stub en memoria.
type SnapshotSource interface {
	Snapshot(ctx context.Context, since time.Time) ([]entity.CheckoutRecord, error)
}
