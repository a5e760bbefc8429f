package migrations_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/store/sqlstore"
	"github.com/shashiranjanraj/pizzapos/database/migrations"
	"github.com/shashiranjanraj/pizzapos/pkg/database"
	"github.com/shashiranjanraj/pizzapos/pkg/migration"
)

func TestApplyRollbackStatus(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	ran, err := migrations.Apply(db)
	require.NoError(t, err)
	assert.Equal(t, 5, ran)
	for _, table := range sqlstore.Tables() {
		assert.True(t, db.Migrator().HasTable(table))
	}

	again, err := migrations.Apply(db)
	require.NoError(t, err)
	assert.Zero(t, again)

	runner := migration.New(db).WithOutput(io.Discard)
	states, err := runner.Status()
	require.NoError(t, err)
	require.Len(t, states, 5)
	for _, s := range states {
		assert.True(t, s.Ran, s.Name)
		assert.Equal(t, 1, s.Batch)
	}

	undone, err := runner.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 5, undone)
	assert.False(t, db.Migrator().HasTable(&sqlstore.OrderRecord{}))

	undone, err = runner.Rollback()
	require.NoError(t, err)
	assert.Zero(t, undone)
}
