package flatfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/app/store/storetest"
)

func TestConformance(t *testing.T) {
	suite.Run(t, &storetest.Suite{Open: func(t *testing.T) store.Store {
		s, err := flatfile.Open(filepath.Join(t.TempDir(), "data"))
		require.NoError(t, err)
		return s
	}})
}

func open(t *testing.T) (*flatfile.Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := flatfile.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func read(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := flatfile.Open("")
	assert.Error(t, err)
}

func TestDirectoryCreatedOnFirstWrite(t *testing.T) {
	s, dir := open(t)

	users, err := s.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "reads must not create the directory")

	require.NoError(t, s.AppendUser(models.User{Username: "leo", Password: "katana", Role: models.RoleCustomer}))
	assert.Equal(t, "leo|katana|customer\n", read(t, dir, flatfile.UsersFile))
}

func TestMissingFilesAreEmpty(t *testing.T) {
	s, _ := open(t)

	orders, err := s.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)

	tips, err := s.ListTipsByDriver("driver")
	require.NoError(t, err)
	assert.Empty(t, tips)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestUpdateOrderIsIdempotent(t *testing.T) {
	s, dir := open(t)
	a := storetest.NewOrder("customer", models.Delivery)
	b := storetest.NewOrder("customer", models.Pickup)
	require.NoError(t, s.SaveOrder(a))
	require.NoError(t, s.SaveOrder(b))

	require.NoError(t, a.Apply(models.EventStartPrep))
	require.NoError(t, s.UpdateOrder(a))
	once := read(t, dir, flatfile.OrdersFile)

	require.NoError(t, s.UpdateOrder(a))
	assert.Equal(t, once, read(t, dir, flatfile.OrdersFile))
	assert.Equal(t, 2, strings.Count(once, "\n"))
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	s, dir := open(t)
	good := storetest.NewOrder("customer", models.Pickup)
	line, err := flatfile.EncodeOrder(good)
	require.NoError(t, err)

	write(t, dir, flatfile.OrdersFile, strings.Join([]string{
		"ORD-short|customer|only three",
		line,
		"ORD-badnum|customer||abc|0|0|pending|2024-01-01 10:00:00|pickup||||cash|",
		"ORD-baddate|customer||1|0.08|1.08|pending|yesterday|pickup||||cash|",
		"ORD-badstatus|customer||1|0.08|1.08|baking|2024-01-01 10:00:00|pickup||||cash|",
		"",
	}, "\n"))
	write(t, dir, flatfile.UsersFile, "leo|katana|customer\nbroken line\nraph|sai|ninja\n")

	orders, err := s.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, good.ID, orders[0].ID)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "leo", users[0].Username)
}

func TestOversizedLineIsSkipped(t *testing.T) {
	s, dir := open(t)
	huge := "mikey|" + strings.Repeat("a", 2<<20) + "|customer"
	write(t, dir, flatfile.UsersFile, "leo|katana|customer\n"+huge+"\nraph|sai|customer\n")

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "leo", users[0].Username)
	assert.Equal(t, "raph", users[1].Username)

	_, err = s.FindUser("mikey")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.SeedDefaultUsers(s)
	require.NoError(t, err)

	o := storetest.NewOrder("customer", models.Pickup)
	line, err := flatfile.EncodeOrder(o)
	require.NoError(t, err)
	write(t, dir, flatfile.OrdersFile, huge+"\n"+line+"\n")

	require.NoError(t, o.Apply(models.EventStartPrep))
	require.NoError(t, s.UpdateOrder(o))
	content := read(t, dir, flatfile.OrdersFile)
	assert.True(t, strings.HasPrefix(content, huge+"\n"), "oversized line kept on rewrite")
	assert.Contains(t, content, "|preparing|")
}

func TestUpdatePreservesMalformedLines(t *testing.T) {
	s, dir := open(t)
	o := storetest.NewOrder("customer", models.Pickup)
	line, err := flatfile.EncodeOrder(o)
	require.NoError(t, err)
	write(t, dir, flatfile.OrdersFile, "garbage\n"+line+"\n")

	require.NoError(t, o.Apply(models.EventStartPrep))
	require.NoError(t, s.UpdateOrder(o))

	content := read(t, dir, flatfile.OrdersFile)
	assert.True(t, strings.HasPrefix(content, "garbage\n"))
	assert.Contains(t, content, "|preparing|")
}

func TestSeparatorInFieldIsRejected(t *testing.T) {
	s, dir := open(t)

	o := storetest.NewOrder("customer", models.Delivery)
	o.DeliveryAddress = "Apt 4|B"
	err := s.SaveOrder(o)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "deliveryAddress", ve.Field)

	o.DeliveryAddress = "line one\nline two"
	assert.ErrorIs(t, s.SaveOrder(o), models.ErrValidation)

	err = s.AppendUser(models.User{Username: "pipe|user", Password: "x", Role: models.RoleCustomer})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing was written")
}

func TestLegacyOrderWithoutItemsKeepsStoredTotals(t *testing.T) {
	s, dir := open(t)
	write(t, dir, flatfile.OrdersFile,
		"ORD-1700000000000|customer|Casey|14.49|1.1592|15.6492|ready|2024-01-01 10:00:00|delivery|1 Sewer Lane|||Cash|\n")

	o, err := s.FindOrder("ORD-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, o.ItemCount())
	assert.Equal(t, 14.49, o.Subtotal())
	assert.Equal(t, 15.6492, o.Total())
	assert.Equal(t, models.StatusReady, o.Status)

	avail, err := s.ListAvailableDeliveryOrders()
	require.NoError(t, err)
	assert.Len(t, avail, 1)
}

func TestUppercaseLegacyRolesAreAccepted(t *testing.T) {
	s, dir := open(t)
	write(t, dir, flatfile.UsersFile, "admin|admin123|ADMIN\n")

	u, err := s.FindUser("admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestItemLinesWrittenOnFirstSave(t *testing.T) {
	s, dir := open(t)
	o := storetest.NewOrder("customer", models.Pickup)
	require.NoError(t, s.SaveOrder(o))

	items := read(t, dir, flatfile.ItemsFile)
	lines := strings.Split(strings.TrimSpace(items), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, o.ID+"|0|pizza|Cowabunga Classic|14.49|1|medium|thin-ninja|pepperoni,bacon||mozzarella|marinara|well done", lines[0])
	assert.Equal(t, o.ID+"|1|beverage|Ninja Water|1.99|2||||medium|||", lines[1])
}

func TestSnapshotCopiesFiles(t *testing.T) {
	s, _ := open(t)
	_, err := store.SeedDefaultUsers(s)
	require.NoError(t, err)
	require.NoError(t, s.AppendTip(models.Tip{OrderID: "ORD-1", DriverUsername: "driver", Amount: 2, Timestamp: time.Now()}))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Contains(t, string(snap[flatfile.UsersFile]), "driver|driver123|driver")
	assert.Contains(t, snap, flatfile.TipsFile)
	assert.NotContains(t, snap, flatfile.OrdersFile)
}
