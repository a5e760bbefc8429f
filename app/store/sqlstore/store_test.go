package sqlstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/app/store/sqlstore"
	"github.com/shashiranjanraj/pizzapos/app/store/storetest"
	"github.com/shashiranjanraj/pizzapos/database/migrations"
	"github.com/shashiranjanraj/pizzapos/pkg/database"
)

func open(t *testing.T) *sqlstore.Store {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "pizzapos.db"))
	require.NoError(t, err)
	_, err = migrations.Apply(db)
	require.NoError(t, err)
	return sqlstore.New(db)
}

func TestConformance(t *testing.T) {
	suite.Run(t, &storetest.Suite{Open: func(t *testing.T) store.Store { return open(t) }})
}

func TestSnapshotUsesFlatFileLayout(t *testing.T) {
	s := open(t)
	t.Cleanup(func() { _ = s.Close() })

	_, err := store.SeedDefaultUsers(s)
	require.NoError(t, err)
	o := storetest.NewOrder("customer", models.Pickup)
	require.NoError(t, s.SaveOrder(o))

	snap, err := s.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "customer|password123|customer\nadmin|admin123|admin\ndriver|driver123|driver\n", string(snap[flatfile.UsersFile]))

	line, err := flatfile.EncodeOrder(o)
	require.NoError(t, err)
	assert.Equal(t, line+"\n", string(snap[flatfile.OrdersFile]))
	assert.Contains(t, string(snap[flatfile.ItemsFile]), o.ID+"|0|pizza|")
	assert.NotContains(t, snap, flatfile.TipsFile)
}

func TestSeparatorRejectedLikeFlatFile(t *testing.T) {
	s := open(t)
	t.Cleanup(func() { _ = s.Close() })

	o := storetest.NewOrder("customer", models.Pickup)
	o.SpecialInstructions = "extra|napkins"
	assert.ErrorIs(t, s.SaveOrder(o), models.ErrValidation)

	orders, err := s.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
}
