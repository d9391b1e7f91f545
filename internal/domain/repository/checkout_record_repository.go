package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// CheckoutRecordRepository define el puerto de persistencia del histórico de
// salidas (DIP). La escritura masiva es territorio del importador; la API solo
// lee.
type CheckoutRecordRepository interface {
	// Snapshot devuelve todos los registros con fecha >= since. Es la foto del
	// histórico sobre la que corre el motor de asignación: un lote completo se
	// calcula contra una sola llamada a Snapshot.
	Snapshot(ctx context.Context, since time.Time) ([]entity.CheckoutRecord, error)

	// BulkInsert inserta registros en bloque y devuelve cuántos insertó.
	BulkInsert(ctx context.Context, records []entity.CheckoutRecord) (int64, error)

	// ReplaceAll reemplaza el contenido completo de la tabla por records en una
	// sola transacción (importación total).
	ReplaceAll(ctx context.Context, records []entity.CheckoutRecord) (int64, error)

	// CountAll devuelve el total de registros almacenados.
	CountAll(ctx context.Context) (int64, error)
}
