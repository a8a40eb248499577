package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

type pgxTransactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) database.Transactor {
	return &pgxTransactor{db: db}
}

// WithinTransaction executes fn against one database transaction. fn gets
// the transaction as its Querier, so every repository call it makes runs
// on the same handle.
func (t *pgxTransactor) WithinTransaction(ctx context.Context, label string, fn func(q database.Querier) error) error {
	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", label, err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "label", label, "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%s: rollback error: %v (original error: %w)", label, rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", label, err)
	}

	return nil
}
