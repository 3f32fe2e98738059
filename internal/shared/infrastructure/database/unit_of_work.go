package database

import (
	"context"
	"fmt"
)

type txKey struct{}

// txScope is the transaction carried by a context. A joined scope belongs to
// an enclosing unit of work and is finished by it.
type txScope struct {
	tx     Tx
	joined bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// ExecutorFromContext returns the transaction carried by ctx, or conn when
// there is none. Stores call it so the same code runs inside and outside a
// unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if s, ok := scopeFrom(ctx); ok {
		return s.tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on a Connection. Beginning
// on a context that already carries a transaction joins it; only the
// outermost scope commits or rolls back.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work over conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin returns a context carrying a transaction.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txKey{}, txScope{tx: s.tx, joined: true}), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return ctx, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx}), nil
}

// Commit commits the transaction begun on ctx.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	return finish(ctx, Tx.Commit)
}

// Rollback discards the transaction begun on ctx.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return finish(ctx, Tx.Rollback)
}

func finish(ctx context.Context, end func(Tx, context.Context) error) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTx
	}
	if s.joined {
		return nil
	}
	return end(s.tx, ctx)
}
