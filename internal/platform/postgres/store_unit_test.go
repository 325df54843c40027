package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The WithTx tests can't open a real transaction without a database, so they
// verify the rebinding behavior structurally. Transaction semantics are
// covered by integration tests.

func TestTaskStoreWithTx(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}
	s := NewPostgresTaskStore(db, nil)

	tx := &sql.Tx{}
	txStore := s.WithTx(tx)

	require.NotNil(t, txStore)
	assert.NotSame(t, s, txStore)

	bound, ok := txStore.(*PostgresTaskStore)
	require.True(t, ok)
	assert.Same(t, tx, bound.db)
	assert.Same(t, db, s.db)
}

func TestTagStoreWithTx(t *testing.T) {
	t.Parallel()

	s := NewPostgresTagStore(&sql.DB{}, nil)
	tx := &sql.Tx{}

	bound, ok := s.WithTx(tx).(*PostgresTagStore)
	require.True(t, ok)
	assert.Same(t, tx, bound.db)
}

func TestConversationStoreWithTx(t *testing.T) {
	t.Parallel()

	s := NewPostgresConversationStore(&sql.DB{}, nil)
	tx := &sql.Tx{}

	bound, ok := s.WithTx(tx).(*PostgresConversationStore)
	require.True(t, ok)
	assert.Same(t, tx, bound.db)
}

func TestNewStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresTagStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresConversationStore(nil, nil) })
}

func TestNullableTime(t *testing.T) {
	t.Parallel()

	assert.False(t, nullableTime(nil).Valid)

	loc := time.FixedZone("CET", 3600)
	in := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	out := nullableTime(&in)
	require.True(t, out.Valid)
	assert.Equal(t, time.UTC, out.Time.Location())
	assert.True(t, out.Time.Equal(in))
}
