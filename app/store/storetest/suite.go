// Package storetest is the behaviour every store.Store must have, written
// once and run against each backend:
//
//	func TestConformance(t *testing.T) {
//	    suite.Run(t, &storetest.Suite{Open: func(t *testing.T) store.Store { ... }})
//	}
package storetest

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
)

type Suite struct {
	suite.Suite
	// Open returns an empty store. It is called before every test.
	Open func(t *testing.T) store.Store

	s store.Store
}

func (ts *Suite) SetupTest() {
	ts.s = ts.Open(ts.T())
}

func (ts *Suite) TearDownTest() {
	_ = ts.s.Close()
}

var driverUser = models.User{Username: "driver", Password: "driver123", Role: models.RoleDriver}

// NewOrder returns a confirmed order with one pizza and one drink.
func NewOrder(customer string, typ models.OrderType) *models.Order {
	o := models.NewOrder(customer, typ)
	o.CustomerName = "Casey Jones"
	o.PaymentMethod = "Credit Card"
	if typ == models.Delivery {
		o.DeliveryAddress = "42 Sewer Lane"
	}
	_ = o.AddItem(models.OrderItem{
		Type: models.ItemPizza, Name: "Cowabunga Classic", UnitPrice: 14.49, Quantity: 1,
		PizzaSize: "medium", CrustType: "thin-ninja", Toppings: []string{"pepperoni", "bacon"},
		CheeseType: "mozzarella", SauceType: "marinara", SpecialInstructions: "well done",
	})
	_ = o.AddItem(models.OrderItem{
		Type: models.ItemBeverage, Name: "Ninja Water", UnitPrice: 1.99, Quantity: 2, BeverageSize: "medium",
	})
	_ = o.Apply(models.EventConfirm)
	return o
}

func (ts *Suite) save(o *models.Order) *models.Order {
	ts.Require().NoError(ts.s.SaveOrder(o))
	return o
}

func (ts *Suite) advance(o *models.Order, events ...models.Event) {
	for _, ev := range events {
		ts.Require().NoError(o.Apply(ev))
	}
	ts.Require().NoError(ts.s.UpdateOrder(o))
}

func (ts *Suite) assertSameOrder(want, got *models.Order) {
	ts.Equal(want.ID, got.ID)
	ts.Equal(want.CustomerUsername, got.CustomerUsername)
	ts.Equal(want.CustomerName, got.CustomerName)
	ts.Equal(want.Status, got.Status)
	ts.Equal(want.Type, got.Type)
	ts.Equal(want.DeliveryAddress, got.DeliveryAddress)
	ts.Equal(want.AssignedDriver, got.AssignedDriver)
	ts.Equal(want.AssignedDriverName, got.AssignedDriverName)
	ts.Equal(want.PaymentMethod, got.PaymentMethod)
	ts.Equal(want.SpecialInstructions, got.SpecialInstructions)
	ts.True(want.OrderDate.Equal(got.OrderDate), "order date %v != %v", want.OrderDate, got.OrderDate)
	ts.Equal(want.Items(), got.Items())
	ts.Equal(want.Totals(), got.Totals())
}

// ─── users ────────────────────────────────────────────────────────────────────

func (ts *Suite) TestSeedDefaultUsersTwice() {
	n, err := store.SeedDefaultUsers(ts.s)
	ts.Require().NoError(err)
	ts.Equal(3, n)

	n, err = store.SeedDefaultUsers(ts.s)
	ts.Require().NoError(err)
	ts.Equal(0, n)

	users, err := ts.s.ListUsers()
	ts.Require().NoError(err)
	ts.Len(users, 3)

	admin, err := ts.s.FindUser("admin")
	ts.Require().NoError(err)
	ts.Equal(models.RoleAdmin, admin.Role)
	ts.Equal("admin123", admin.Password)
}

func (ts *Suite) TestSeedFillsOnlyMissingUsers() {
	ts.Require().NoError(ts.s.AppendUser(models.User{Username: "admin", Password: "changed", Role: models.RoleAdmin}))

	n, err := store.SeedDefaultUsers(ts.s)
	ts.Require().NoError(err)
	ts.Equal(2, n)

	admin, err := ts.s.FindUser("admin")
	ts.Require().NoError(err)
	ts.Equal("changed", admin.Password)
}

func (ts *Suite) TestFindUserMissing() {
	_, err := ts.s.FindUser("nobody")
	ts.ErrorIs(err, store.ErrNotFound)
}

func (ts *Suite) TestUsersKeepInsertionOrder() {
	for _, name := range []string{"leo", "raph", "donnie", "mikey"} {
		ts.Require().NoError(ts.s.AppendUser(models.User{Username: name, Password: "pizza", Role: models.RoleCustomer}))
	}
	users, err := ts.s.ListUsers()
	ts.Require().NoError(err)
	ts.Require().Len(users, 4)
	ts.Equal("leo", users[0].Username)
	ts.Equal("mikey", users[3].Username)
}

func (ts *Suite) TestAppendUserRejectsInvalid() {
	err := ts.s.AppendUser(models.User{Username: "x", Password: "y", Role: "chef"})
	ts.ErrorIs(err, models.ErrValidation)
}

// ─── orders ───────────────────────────────────────────────────────────────────

func (ts *Suite) TestSaveAndFindOrder() {
	o := ts.save(NewOrder("customer", models.Delivery))

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.assertSameOrder(o, got)
	ts.Len(got.Items(), 2)
}

func (ts *Suite) TestSaveExistingOrderUpdates() {
	o := ts.save(NewOrder("customer", models.Pickup))
	ts.Require().NoError(o.Apply(models.EventStartPrep))
	ts.save(o)

	all, err := ts.s.ListOrders()
	ts.Require().NoError(err)
	ts.Require().Len(all, 1)
	ts.Equal(models.StatusPreparing, all[0].Status)
	ts.Len(all[0].Items(), 2)
}

func (ts *Suite) TestUpdateUnknownOrder() {
	err := ts.s.UpdateOrder(NewOrder("customer", models.Pickup))
	ts.ErrorIs(err, store.ErrNotFound)

	_, err = ts.s.FindOrder("ORD-missing")
	ts.ErrorIs(err, store.ErrNotFound)
}

func (ts *Suite) TestUpdateKeepsFirstSavedItems() {
	o := ts.save(NewOrder("customer", models.Pickup))
	ts.Require().NoError(o.RemoveItem(1))
	ts.Require().NoError(ts.s.UpdateOrder(o))

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Len(got.Items(), 2)
}

func (ts *Suite) TestListFilters() {
	mine := ts.save(NewOrder("leo", models.Pickup))
	ts.save(NewOrder("raph", models.Pickup))

	ready := ts.save(NewOrder("raph", models.Delivery))
	ts.advance(ready, models.EventStartPrep, models.EventMarkReady)

	preparing := ts.save(NewOrder("raph", models.Delivery))
	ts.advance(preparing, models.EventStartPrep)

	ts.save(NewOrder("raph", models.Delivery)) // pending

	pickupReady := ts.save(NewOrder("raph", models.Pickup))
	ts.advance(pickupReady, models.EventStartPrep, models.EventMarkReady)

	claimed := ts.save(NewOrder("raph", models.Delivery))
	ts.Require().NoError(claimed.Apply(models.EventStartPrep))
	ts.Require().NoError(claimed.Apply(models.EventMarkReady))
	ts.Require().NoError(claimed.AssignDriver(driverUser))
	ts.Require().NoError(ts.s.UpdateOrder(claimed))

	all, err := ts.s.ListOrders()
	ts.Require().NoError(err)
	ts.Len(all, 7)

	byUser, err := ts.s.ListOrdersByUser("leo")
	ts.Require().NoError(err)
	ts.Require().Len(byUser, 1)
	ts.Equal(mine.ID, byUser[0].ID)

	byDriver, err := ts.s.ListOrdersByDriver("driver")
	ts.Require().NoError(err)
	ts.Require().Len(byDriver, 1)
	ts.Equal(claimed.ID, byDriver[0].ID)

	avail, err := ts.s.ListAvailableDeliveryOrders()
	ts.Require().NoError(err)
	ids := make([]string, 0, len(avail))
	for _, o := range avail {
		ids = append(ids, o.ID)
	}
	ts.ElementsMatch([]string{ready.ID, preparing.ID}, ids)
}

func (ts *Suite) TestMutateOrderAbortsOnError() {
	o := ts.save(NewOrder("customer", models.Pickup))
	boom := errors.New("boom")

	_, err := ts.s.MutateOrder(o.ID, func(o *models.Order) error {
		o.Status = models.StatusDelivered
		return boom
	})
	ts.ErrorIs(err, boom)

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Equal(models.StatusPending, got.Status)
}

func (ts *Suite) TestRejectedTransitionLeavesStoredStatus() {
	o := ts.save(NewOrder("customer", models.Pickup))
	ts.advance(o, models.EventStartPrep, models.EventCancel)

	_, err := ts.s.MutateOrder(o.ID, func(o *models.Order) error {
		return o.Apply(models.EventPickUp)
	})
	ts.ErrorIs(err, models.ErrInvalidTransition)

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Equal(models.StatusCancelled, got.Status)
}

func (ts *Suite) TestMutateUnknownOrder() {
	_, err := ts.s.MutateOrder("ORD-missing", func(*models.Order) error { return nil })
	ts.ErrorIs(err, store.ErrNotFound)
}

// Two drivers see the same ready order and both claim it through the raw
// read-modify-write path. Neither gets an error and the later write wins.
func (ts *Suite) TestClaimRaceThroughUpdateOrderLastWriteWins() {
	o := ts.save(NewOrder("customer", models.Delivery))
	ts.advance(o, models.EventStartPrep, models.EventMarkReady)

	seenByA, err := ts.s.ListAvailableDeliveryOrders()
	ts.Require().NoError(err)
	seenByB, err := ts.s.ListAvailableDeliveryOrders()
	ts.Require().NoError(err)
	ts.Require().Len(seenByA, 1)
	ts.Require().Len(seenByB, 1)

	a := models.User{Username: "april", Password: "x", Role: models.RoleDriver}
	b := models.User{Username: "casey", Password: "x", Role: models.RoleDriver}

	ts.Require().NoError(seenByA[0].AssignDriver(a))
	ts.Require().NoError(seenByB[0].AssignDriver(b))
	ts.Require().NoError(ts.s.UpdateOrder(seenByA[0]))
	ts.Require().NoError(ts.s.UpdateOrder(seenByB[0]))

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Equal("casey", got.AssignedDriver)

	aList, err := ts.s.ListOrdersByDriver("april")
	ts.Require().NoError(err)
	ts.Empty(aList, "april's claim was silently lost")
}

func (ts *Suite) TestClaimRaceThroughMutateOrderRejectsSecond() {
	o := ts.save(NewOrder("customer", models.Delivery))
	ts.advance(o, models.EventStartPrep, models.EventMarkReady)

	claim := func(name string) error {
		_, err := ts.s.MutateOrder(o.ID, func(o *models.Order) error {
			return o.AssignDriver(models.User{Username: name, Password: "x", Role: models.RoleDriver})
		})
		return err
	}
	ts.Require().NoError(claim("april"))
	ts.ErrorIs(claim("casey"), models.ErrInvalidTransition)

	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Equal("april", got.AssignedDriver)
}

func (ts *Suite) TestConcurrentClaimsExactlyOneWins() {
	o := ts.save(NewOrder("customer", models.Delivery))
	ts.advance(o, models.EventStartPrep, models.EventMarkReady)

	const drivers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []string
	)
	for i := 0; i < drivers; i++ {
		name := string(rune('a' + i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ts.s.MutateOrder(o.ID, func(o *models.Order) error {
				return o.AssignDriver(models.User{Username: name, Password: "x", Role: models.RoleDriver})
			})
			if err == nil {
				mu.Lock()
				wins = append(wins, name)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	ts.Require().Len(wins, 1)
	got, err := ts.s.FindOrder(o.ID)
	ts.Require().NoError(err)
	ts.Equal(wins[0], got.AssignedDriver)
}

func (ts *Suite) TestPurgeOrders() {
	old := NewOrder("customer", models.Pickup)
	old.OrderDate = time.Date(2020, 1, 2, 12, 0, 0, 0, time.Local)
	ts.save(old)
	keep := ts.save(NewOrder("customer", models.Pickup))

	removed, err := ts.s.PurgeOrders(func(o *models.Order) bool {
		return o.OrderDate.Year() == 2020
	})
	ts.Require().NoError(err)
	ts.Require().Len(removed, 1)
	ts.Equal(old.ID, removed[0].ID)
	ts.Len(removed[0].Items(), 2)

	all, err := ts.s.ListOrders()
	ts.Require().NoError(err)
	ts.Require().Len(all, 1)
	ts.Equal(keep.ID, all[0].ID)
	ts.Len(all[0].Items(), 2)

	none, err := ts.s.PurgeOrders(func(*models.Order) bool { return false })
	ts.Require().NoError(err)
	ts.Empty(none)
}

// ─── tips and events ──────────────────────────────────────────────────────────

func (ts *Suite) TestTips() {
	at := time.Date(2024, 5, 1, 18, 30, 0, 0, time.Local)
	ts.Require().NoError(ts.s.AppendTip(models.Tip{OrderID: "ORD-1", DriverUsername: "driver", Amount: 3.5, Timestamp: at}))
	ts.Require().NoError(ts.s.AppendTip(models.Tip{OrderID: "ORD-2", DriverUsername: "other", Amount: 1, Timestamp: at}))
	ts.Require().NoError(ts.s.AppendTip(models.Tip{OrderID: "ORD-3", DriverUsername: "driver", Amount: 0, Timestamp: at}))

	tips, err := ts.s.ListTipsByDriver("driver")
	ts.Require().NoError(err)
	ts.Require().Len(tips, 2)
	ts.Equal("ORD-1", tips[0].OrderID)
	ts.Equal(3.5, tips[0].Amount)
	ts.True(at.Equal(tips[0].Timestamp))

	err = ts.s.AppendTip(models.Tip{OrderID: "ORD-4", DriverUsername: "driver", Amount: -1, Timestamp: at})
	ts.ErrorIs(err, models.ErrValidation)
}

func (ts *Suite) TestEvents() {
	at := time.Date(2024, 5, 1, 18, 30, 0, 0, time.Local)
	ts.Require().NoError(ts.s.AppendEvent(models.OrderEvent{OrderID: "ORD-1", Event: models.EventConfirm, From: models.StatusDraft, To: models.StatusPending, Actor: "customer", At: at}))
	ts.Require().NoError(ts.s.AppendEvent(models.OrderEvent{OrderID: "ORD-2", Event: models.EventConfirm, From: models.StatusDraft, To: models.StatusPending, Actor: "customer", At: at}))
	ts.Require().NoError(ts.s.AppendEvent(models.OrderEvent{OrderID: "ORD-1", Event: models.EventStartPrep, From: models.StatusPending, To: models.StatusPreparing, Actor: "admin", At: at.Add(time.Minute)}))

	events, err := ts.s.ListEvents("ORD-1")
	ts.Require().NoError(err)
	ts.Require().Len(events, 2)
	ts.Equal(models.EventConfirm, events[0].Event)
	ts.Equal(models.StatusDraft, events[0].From)
	ts.Equal(models.StatusPreparing, events[1].To)
	ts.Equal("admin", events[1].Actor)
}

func (ts *Suite) TestClosedStore() {
	ts.Require().NoError(ts.s.Close())
	_, err := ts.s.ListOrders()
	ts.ErrorIs(err, store.ErrClosed)
	ts.ErrorIs(ts.s.AppendUser(driverUser), store.ErrClosed)
}
