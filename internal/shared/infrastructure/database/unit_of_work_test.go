package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedApplication "github.com/felixgeelhaar/lifecycles/internal/shared/application"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database/sqlite"
)

func setup(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(ctx, `CREATE TABLE lifecycle_maps (key TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	return conn
}

func count(t *testing.T, exec database.Executor) int {
	t.Helper()
	rows, err := exec.Query(context.Background(), `SELECT COUNT(*) FROM lifecycle_maps`)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}

func insert(ctx context.Context, conn database.Connection, key string) error {
	_, err := database.ExecutorFromContext(ctx, conn).Exec(ctx, `INSERT INTO lifecycle_maps (key) VALUES (?)`, key)
	return err
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	conn := setup(t)
	uow := database.NewUnitOfWork(conn)

	err := sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		return insert(txCtx, conn, "support -> approvals")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, conn))

	boom := errors.New("boom")
	err = sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		require.NoError(t, insert(txCtx, conn, "approvals -> support"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count(t, conn))
}

func TestUnitOfWork_NestedScopeJoins(t *testing.T) {
	ctx := context.Background()
	conn := setup(t)
	uow := database.NewUnitOfWork(conn)

	outer, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, insert(outer, conn, "a -> b"))

	err = sharedApplication.WithUnitOfWork(outer, uow, func(inner context.Context) error {
		return insert(inner, conn, "b -> a")
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count(t, database.ExecutorFromContext(outer, conn)))
	require.NoError(t, uow.Rollback(outer))
	assert.Equal(t, 0, count(t, conn), "joined scope must not commit the outer transaction")
}

func TestUnitOfWork_FinishWithoutBegin(t *testing.T) {
	uow := database.NewUnitOfWork(setup(t))

	assert.ErrorIs(t, uow.Commit(context.Background()), database.ErrNoTx)
	assert.ErrorIs(t, uow.Rollback(context.Background()), database.ErrNoTx)
}
