package core

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/shelfstock/internal/logging"
	"github.com/JonMunkholm/shelfstock/internal/metrics"
)

// maxQuantity is the largest quantity the INTEGER columns hold.
const maxQuantity = math.MaxInt32

// Ledger operation names, used as metric labels.
const (
	opSell     = "sell"
	opRestock  = "restock"
	opSetShelf = "set_shelf"
)

// Sell removes quantity units from the shelf of a batch. The shelf must hold
// at least quantity units; the total is unchanged.
func (s *Service) Sell(ctx context.Context, batchID int64, quantity int) (Batch, error) {
	if quantity <= 0 || quantity > maxQuantity {
		metrics.RecordRejection(opSell, "invalid_quantity")
		return Batch{}, fmt.Errorf("sell %d units from batch %d: %w", quantity, batchID, ErrInvalidQuantity)
	}

	b, err := s.moveStock(ctx, fmt.Sprintf("sell from batch %d", batchID),
		`UPDATE batches SET shelf_quantity = shelf_quantity - $2
		 WHERE id = $1 AND shelf_quantity >= $2
		 RETURNING `+batchColumns,
		batchID, quantity)
	if errors.Is(err, errNoMatch) {
		cur, gerr := s.GetBatch(ctx, batchID)
		if gerr != nil {
			return Batch{}, gerr
		}
		metrics.RecordRejection(opSell, "insufficient_shelf_stock")
		return Batch{}, fmt.Errorf("sell %d units from batch %d with %d on shelf: %w",
			quantity, batchID, cur.ShelfQuantity, ErrInsufficientShelfStock)
	}
	if err != nil {
		return Batch{}, err
	}

	metrics.RecordMovement(opSell, quantity)
	logging.FromContext(ctx).Debug("stock sold", "batch_id", batchID, "quantity", quantity, "shelf", b.ShelfQuantity)
	return b, nil
}

// Restock moves quantity units from the backroom to the shelf. The shelf
// may not exceed the batch total.
func (s *Service) Restock(ctx context.Context, batchID int64, quantity int) (Batch, error) {
	if quantity <= 0 || quantity > maxQuantity {
		metrics.RecordRejection(opRestock, "invalid_quantity")
		return Batch{}, fmt.Errorf("restock %d units on batch %d: %w", quantity, batchID, ErrInvalidQuantity)
	}

	b, err := s.moveStock(ctx, fmt.Sprintf("restock batch %d", batchID),
		`UPDATE batches SET shelf_quantity = shelf_quantity + $2::int
		 WHERE id = $1 AND shelf_quantity::bigint + $2::int <= total_quantity
		 RETURNING `+batchColumns,
		batchID, quantity)
	if errors.Is(err, errNoMatch) {
		cur, gerr := s.GetBatch(ctx, batchID)
		if gerr != nil {
			return Batch{}, gerr
		}
		metrics.RecordRejection(opRestock, "exceeds_total_stock")
		return Batch{}, fmt.Errorf("restock %d units on batch %d with %d in backroom: %w",
			quantity, batchID, cur.Backroom(), ErrExceedsTotalStock)
	}
	if err != nil {
		return Batch{}, err
	}

	metrics.RecordMovement(opRestock, quantity)
	logging.FromContext(ctx).Debug("stock restocked", "batch_id", batchID, "quantity", quantity, "shelf", b.ShelfQuantity)
	return b, nil
}

// SetShelfQuantity overwrites the shelf count of a batch, for manual
// corrections after a stock take. The value must lie in [0, total].
func (s *Service) SetShelfQuantity(ctx context.Context, batchID int64, value int) (Batch, error) {
	if value < 0 || value > maxQuantity {
		metrics.RecordRejection(opSetShelf, "invalid_quantity")
		return Batch{}, fmt.Errorf("set shelf of batch %d to %d: %w", batchID, value, ErrInvalidQuantity)
	}

	b, err := s.moveStock(ctx, fmt.Sprintf("set shelf of batch %d", batchID),
		`UPDATE batches SET shelf_quantity = $2
		 WHERE id = $1 AND $2 <= total_quantity
		 RETURNING `+batchColumns,
		batchID, value)
	if errors.Is(err, errNoMatch) {
		cur, gerr := s.GetBatch(ctx, batchID)
		if gerr != nil {
			return Batch{}, gerr
		}
		metrics.RecordRejection(opSetShelf, "exceeds_total_stock")
		return Batch{}, fmt.Errorf("set shelf of batch %d to %d with total %d: %w",
			batchID, value, cur.TotalQuantity, ErrExceedsTotalStock)
	}
	if err != nil {
		return Batch{}, err
	}

	logging.FromContext(ctx).Info("shelf quantity set", "batch_id", batchID, "shelf", b.ShelfQuantity)
	return b, nil
}

// errNoMatch marks a conditional update that touched no row: either the
// batch is missing or the condition failed. Callers tell them apart.
var errNoMatch = errors.New("no row matched")

func (s *Service) moveStock(ctx context.Context, op, query string, batchID int64, quantity int) (Batch, error) {
	rows, _ := s.db.Query(ctx, query, batchID, quantity)
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Batch])
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, errNoMatch
	}
	if err != nil {
		return Batch{}, classify(op, err)
	}
	return b, nil
}
