package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchesExpiringWithin returns batches whose expiry date is at most days
// after today, soonest first. Batches that already expired are included.
func (s *Service) BatchesExpiringWithin(ctx context.Context, days int) ([]Batch, error) {
	if days < 0 {
		return nil, fmt.Errorf("expiring within %d days: %w", days, ErrInvalidInput)
	}

	cutoff := s.today().AddDate(0, 0, days)

	rows, _ := s.db.Query(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE expiry_date <= $1 ORDER BY expiry_date, id`,
		cutoff)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Batch])
	if err != nil {
		return nil, classify(fmt.Sprintf("batches expiring within %d days", days), err)
	}
	return out, nil
}
