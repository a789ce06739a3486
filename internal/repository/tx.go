package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepo exposes aggregate reads and writes bound to one transaction.
type TxRepo struct {
	tx pgx.Tx
}

// runTx opens a transaction, executes fn within it and commits, rolling back
// on error or panic.
func runTx(ctx context.Context, db *pgxpool.Pool, fn func(tx *TxRepo) error) (err error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
