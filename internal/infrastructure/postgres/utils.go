package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Asignacion-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// usageFilterClause construye las condiciones WHERE de un UsageFilter.
// Devuelve el fragmento SQL (cada condición precedida por " AND ") y los
// argumentos en el orden de los placeholders, numerados desde argIdx.
func usageFilterClause(f repository.UsageFilter, argIdx int) (string, []any) {
	var sb strings.Builder
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(argIdx+len(args)-1)
	}

	if f.From != nil {
		sb.WriteString(" AND date >= " + next(*f.From))
	}
	if f.To != nil {
		sb.WriteString(" AND date <= " + next(*f.To))
	}
	if len(f.Departments) > 0 {
		sb.WriteString(" AND department = ANY(" + next(f.Departments) + ")")
	}
	if len(f.Items) > 0 {
		sb.WriteString(" AND item_name = ANY(" + next(f.Items) + ")")
	}
	if len(f.Categories) > 0 {
		sb.WriteString(" AND category = ANY(" + next(f.Categories) + ")")
	}
	return sb.String(), args
}
