package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/models"
)

func reportOrder(t *testing.T, typ models.OrderType, at time.Time, payment string, status models.Status, items ...models.OrderItem) *models.Order {
	t.Helper()
	o := models.NewOrder("customer", typ)
	o.OrderDate = at
	o.PaymentMethod = payment
	require.NoError(t, o.SetItems(items))
	o.Status = status
	return o
}

func line(name string, price float64, qty int) models.OrderItem {
	return models.OrderItem{Type: models.ItemPizza, Name: name, UnitPrice: price, Quantity: qty}
}

func TestBuildDailyReport(t *testing.T) {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.Local)
	noon := day.Add(12 * time.Hour)

	orders := []*models.Order{
		reportOrder(t, models.Delivery, noon, "Cash", models.StatusDelivered, line("Classic", 10, 2), line("Water", 2, 1)),
		reportOrder(t, models.Pickup, noon.Add(time.Hour), "Visa", models.StatusPending, line("Veggie", 10, 1), line("Water", 2, 2)),
		reportOrder(t, models.Pickup, noon, "cash on pickup", models.StatusCancelled, line("Classic", 10, 9)),
		reportOrder(t, models.Delivery, noon.AddDate(0, 0, 1), "Cash", models.StatusDelivered, line("Classic", 10, 1)),
	}

	r := BuildDailyReport(orders, day)
	assert.Equal(t, "2026-05-04", r.Date)
	assert.Equal(t, 3, r.OrderCount)
	assert.Equal(t, 2, r.BillableCount)
	assert.Equal(t, 1, r.DeliveryCount)
	assert.Equal(t, 2, r.PickupCount)

	// 22 + 14 subtotal, 8% tax
	assert.InDelta(t, 36*1.08, r.Sales, 1e-9)
	assert.InDelta(t, 36*0.08, r.Tax, 1e-9)
	assert.InDelta(t, 18*1.08, r.AverageOrder, 1e-9)
	assert.InDelta(t, 22*1.08, r.CashSales, 1e-9)
	assert.InDelta(t, 14*1.08, r.CardSales, 1e-9)

	assert.Equal(t, []ItemCount{{"Water", 3}, {"Classic", 2}, {"Veggie", 1}}, r.TopItems)
	require.Len(t, r.Voids, 1)
	assert.Equal(t, orders[2].ID, r.Voids[0].OrderID)

	rounded := r.Rounded()
	assert.Equal(t, 38.88, rounded.Sales)
	assert.Equal(t, 2.88, rounded.Tax)
	assert.Equal(t, 97.2, rounded.Voids[0].Total)
}

func TestDailyReportTopFive(t *testing.T) {
	day := time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local)
	var items []models.OrderItem
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, line(name, 1, i+1))
	}
	r := BuildDailyReport([]*models.Order{reportOrder(t, models.Pickup, day, "", models.StatusReady, items...)}, day)
	require.Len(t, r.TopItems, TopItemsLimit)
	assert.Equal(t, "g", r.TopItems[0].Name)
	assert.Equal(t, "c", r.TopItems[4].Name)
}

func TestEmptyDailyReport(t *testing.T) {
	r := BuildDailyReport(nil, time.Now())
	assert.Zero(t, r.OrderCount)
	assert.Zero(t, r.AverageOrder)
	assert.NotNil(t, r.TopItems)
	assert.NotNil(t, r.Voids)
}

func TestBuildSalesReport(t *testing.T) {
	now := time.Now()
	orders := []*models.Order{
		reportOrder(t, models.Pickup, now, "", models.StatusDelivered, line("x", 10, 1)),
		reportOrder(t, models.Pickup, now.AddDate(0, -1, 0), "", models.StatusPending, line("x", 15, 1)),
		reportOrder(t, models.Pickup, now, "", models.StatusCancelled, line("x", 100, 1)),
	}
	r := BuildSalesReport(orders)
	assert.Equal(t, 2, r.OrderCount)
	assert.InDelta(t, 27.0, r.Sales, 1e-9)
	assert.InDelta(t, 2.0, r.Tax, 1e-9)
	assert.InDelta(t, 25.0, r.NetRevenue, 1e-9)
	assert.Equal(t, SalesReport{OrderCount: 2, Sales: 27, Tax: 2, NetRevenue: 25}, r.Rounded())
}

func TestSameDayUsesDayLocation(t *testing.T) {
	utc := time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC)
	east := time.FixedZone("east", 2*3600)
	assert.True(t, SameDay(utc, time.Date(2026, 5, 5, 0, 0, 0, 0, east)))
	assert.False(t, SameDay(utc, time.Date(2026, 5, 4, 0, 0, 0, 0, east)))
}
