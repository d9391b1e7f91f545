package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
	"github.com/jhoicas/Asignacion-api/internal/domain/repository"
)

var _ repository.CheckoutRecordRepository = (*CheckoutRecordRepo)(nil)

// CheckoutRecordRepo implementación del puerto CheckoutRecordRepository sobre PostgreSQL.
type CheckoutRecordRepo struct {
	pool *pgxpool.Pool
}

// NewCheckoutRecordRepository construye el adaptador de persistencia del histórico.
func NewCheckoutRecordRepository(pool *pgxpool.Pool) *CheckoutRecordRepo {
	return &CheckoutRecordRepo{pool: pool}
}

var checkoutColumns = []string{
	"id", "date", "item_serial", "item_name", "department", "department_category",
	"issued_to", "quantity", "unit", "category", "reference", "batch_number",
	"store", "received_by", "created_at",
}

// Snapshot devuelve todos los registros con fecha >= since, en orden estable.
func (r *CheckoutRecordRepo) Snapshot(ctx context.Context, since time.Time) ([]entity.CheckoutRecord, error) {
	const query = `
		SELECT id, date, item_serial, item_name, department, department_category,
		       issued_to, quantity, unit, category, reference, batch_number,
		       store, received_by, created_at
		FROM checkout_records
		WHERE date >= $1
		ORDER BY date, id`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("checkout.Snapshot: %w", err)
	}
	defer rows.Close()

	var records []entity.CheckoutRecord
	for rows.Next() {
		var rec entity.CheckoutRecord
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.ItemSerial, &rec.ItemName, &rec.Department,
			&rec.DepartmentCategory, &rec.IssuedTo, &rec.Quantity, &rec.Unit,
			&rec.Category, &rec.Reference, &rec.BatchNumber, &rec.Store,
			&rec.ReceivedBy, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("checkout.Snapshot scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// BulkInsert inserta registros en bloque con COPY y devuelve cuántos insertó.
func (r *CheckoutRecordRepo) BulkInsert(ctx context.Context, records []entity.CheckoutRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	prepareRecords(records)

	n, err := copyRecords(ctx, r.pool, records)
	if err != nil {
		return 0, fmt.Errorf("checkout.BulkInsert: %w", err)
	}
	return n, nil
}

// ReplaceAll reemplaza el contenido completo de la tabla en una sola transacción:
// o queda el histórico nuevo entero, o queda el anterior.
func (r *CheckoutRecordRepo) ReplaceAll(ctx context.Context, records []entity.CheckoutRecord) (int64, error) {
	prepareRecords(records)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("checkout.ReplaceAll begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM checkout_records`); err != nil {
		return 0, fmt.Errorf("checkout.ReplaceAll delete: %w", err)
	}
	var n int64
	if len(records) > 0 {
		if n, err = copyRecords(ctx, tx, records); err != nil {
			return 0, fmt.Errorf("checkout.ReplaceAll: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("checkout.ReplaceAll commit: %w", err)
	}
	return n, nil
}

// CountAll devuelve el total de registros almacenados.
func (r *CheckoutRecordRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM checkout_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("checkout.CountAll: %w", err)
	}
	return n, nil
}

// copyTarget es lo que COPY necesita; lo cumplen el pool y una transacción.
type copyTarget interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func copyRecords(ctx context.Context, target copyTarget, records []entity.CheckoutRecord) (int64, error) {
	return target.CopyFrom(ctx,
		pgx.Identifier{"checkout_records"},
		checkoutColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				rec.ID, rec.Date, rec.ItemSerial, rec.ItemName, rec.Department,
				rec.DepartmentCategory, rec.IssuedTo, rec.Quantity, rec.Unit,
				rec.Category, rec.Reference, rec.BatchNumber, rec.Store,
				rec.ReceivedBy, rec.CreatedAt,
			}, nil
		}),
	)
}

// prepareRecords completa ID y CreatedAt cuando vienen vacíos del importador.
func prepareRecords(records []entity.CheckoutRecord) {
	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.New().String()
		}
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = now
		}
	}
}
