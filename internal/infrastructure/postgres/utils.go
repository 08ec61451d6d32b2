package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Canal de pg_notify para la propagación de cambios. El listener hace
// LISTEN sobre él y el payload es el nombre de la tabla que cambió.
const notifyChannel = "stock_events"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// notifyChange emite pg_notify con el nombre de la tabla. Dentro de una
// transacción la notificación solo se entrega en el commit, así los
// suscriptores nunca ven un cambio que terminó en rollback.
func notifyChange(q Querier, table string) error {
	_, err := q.Exec(context.Background(), `SELECT pg_notify($1, $2)`, notifyChannel, table)
	if err != nil {
		return fmt.Errorf("pg_notify %s: %w", table, err)
	}
	return nil
}
