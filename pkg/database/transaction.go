package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

type TxContextKey string

const txKey = TxContextKey("tx-context-key")

type Tx interface {
	Querier
	IsOpen() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type beginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Transaction wraps sqlx.Tx. Only the caller that opened the transaction owns
// it; handles given to nested callers treat Commit and Rollback as no-ops so
// the outermost scope decides the outcome.
type Transaction struct {
	*sqlx.Tx
	logger ectologger.Logger
	owner  bool
	state  *txState
}

type txState struct {
	closed bool
}

func NewTx(tx *sqlx.Tx, logger ectologger.Logger) Tx {
	return &Transaction{
		Tx:     tx,
		logger: logger,
		owner:  true,
		state:  &txState{},
	}
}

func txFromContext(ctx context.Context) (*Transaction, bool) {
	tx, ok := ctx.Value(txKey).(*Transaction)
	if !ok || tx == nil || !tx.IsOpen() {
		return nil, false
	}
	return tx, true
}

// GetTx joins the transaction already bound to ctx or begins a new one and
// binds it to the returned context.
func GetTx(ctx context.Context, logger ectologger.Logger, db beginner, opts *sql.TxOptions) (context.Context, Tx, error) {
	if parent, ok := txFromContext(ctx); ok {
		return ctx, &Transaction{Tx: parent.Tx, logger: logger, owner: false, state: parent.state}, nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("error while beginning transaction: %w", err)
	}

	newTx := &Transaction{Tx: tx, logger: logger, owner: true, state: &txState{}}
	return context.WithValue(ctx, txKey, newTx), newTx, nil
}

func (t *Transaction) IsOpen() bool {
	return !t.state.closed
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if !t.owner || t.state.closed {
		return nil
	}

	if err := t.Tx.Rollback(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("error while rolling back transaction: %w", err)
	}

	t.state.closed = true
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if !t.owner || t.state.closed {
		return nil
	}

	if err := t.Tx.Commit(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("error while committing transaction: %w", err)
	}

	t.state.closed = true
	return nil
}
