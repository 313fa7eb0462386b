package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	DBExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := Wrap(&sql.DB{}, nil)

	ctx := context.Background()
	assert.Same(t, db, GetExecutor(ctx, db).(*DB))
	assert.False(t, IsInTransaction(ctx))

	tx := stubTx{}
	txCtx := WithTx(ctx, tx)
	assert.Equal(t, tx, GetExecutor(txCtx, db))
	assert.True(t, IsInTransaction(txCtx))
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "select", operationOf("SELECT id FROM rooms"))
	assert.Equal(t, "insert", operationOf("\n  INSERT INTO bookings"))
	assert.Equal(t, "unknown", operationOf("   "))
}
