package allocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// snapshotCache retiene la foto del histórico durante el TTL configurado, de
// modo que los lotes consecutivos no relean la tabla completa. Un lote siempre
// calcula contra una sola foto; Invalidate fuerza la recarga en el siguiente
// acceso.
type snapshotCache struct {
	mu       sync.RWMutex
	records  []entity.CheckoutRecord
	loadedAt time.Time
}

func (c *snapshotCache) get(ttl time.Duration) ([]entity.CheckoutRecord, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loadedAt.IsZero() || time.Since(c.loadedAt) >= ttl {
		return nil, time.Time{}, false
	}
	return c.records, c.loadedAt, true
}

func (c *snapshotCache) invalidate() {
	c.mu.Lock()
	c.records = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// snapshot devuelve la foto vigente, recargándola del origen si expiró.
func (uc *UseCase) snapshot(ctx context.Context) ([]entity.CheckoutRecord, time.Time, error) {
	if records, at, ok := uc.cache.get(uc.params.SnapshotTTL); ok {
		return records, at, nil
	}

	uc.cache.mu.Lock()
	defer uc.cache.mu.Unlock()
	// Otro goroutine pudo recargar mientras esperábamos el lock.
	if !uc.cache.loadedAt.IsZero() && time.Since(uc.cache.loadedAt) < uc.params.SnapshotTTL {
		return uc.cache.records, uc.cache.loadedAt, nil
	}

	records, err := uc.source.Snapshot(ctx, uc.windowStart(time.Now()))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("cargar snapshot: %w", err)
	}
	uc.cache.records = records
	uc.cache.loadedAt = time.Now()
	return records, uc.cache.loadedAt, nil
}

// windowStart devuelve el inicio de la ventana de recencia: 1 de enero de hace
// HistoryYears años. El histórico más viejo no participa del cálculo.
func (uc *UseCase) windowStart(now time.Time) time.Time {
	return time.Date(now.Year()-uc.params.HistoryYears, time.January, 1, 0, 0, 0, 0, time.UTC)
}
