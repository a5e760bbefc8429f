package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
	"github.com/shashiranjanraj/pizzapos/pkg/collection"
)

// TopItemsLimit is how many best sellers a daily report lists.
const TopItemsLimit = 5

// ItemCount is a best-seller line.
type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Void is a cancelled order in a daily report.
type Void struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

// DailyReport summarizes one calendar day (local time). Money fields exclude
// cancelled orders; OrderCount includes them.
type DailyReport struct {
	Date          string      `json:"date"`
	OrderCount    int         `json:"order_count"`
	BillableCount int         `json:"billable_count"`
	Sales         float64     `json:"sales"`
	Tax           float64     `json:"tax"`
	AverageOrder  float64     `json:"average_order"`
	CashSales     float64     `json:"cash_sales"`
	CardSales     float64     `json:"card_sales"`
	TopItems      []ItemCount `json:"top_items"`
	DeliveryCount int         `json:"delivery_count"`
	PickupCount   int         `json:"pickup_count"`
	Voids         []Void      `json:"voids"`
}

// SalesReport covers every order on file, cancelled orders excluded.
type SalesReport struct {
	OrderCount int     `json:"order_count"`
	Sales      float64 `json:"sales"`
	Tax        float64 `json:"tax"`
	NetRevenue float64 `json:"net_revenue"`
}

// Dashboard is the admin landing view.
type Dashboard struct {
	Counts       map[models.Status]int `json:"counts"`
	TodayOrders  int                   `json:"today_orders"`
	TodayRevenue float64               `json:"today_revenue"`
}

// SameDay reports whether t falls on day's calendar date in day's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func onDay(day time.Time) func(*models.Order) bool {
	return func(o *models.Order) bool { return !o.OrderDate.IsZero() && SameDay(o.OrderDate, day) }
}

func billable(o *models.Order) bool { return o.Status != models.StatusCancelled }

// BuildDailyReport aggregates orders placed on day.
func BuildDailyReport(orders []*models.Order, day time.Time) DailyReport {
	r := DailyReport{Date: day.Format("2006-01-02"), TopItems: []ItemCount{}, Voids: []Void{}}
	counts := map[string]int{}

	for _, o := range orders {
		if !onDay(day)(o) {
			continue
		}
		r.OrderCount++
		if o.Type == models.Delivery {
			r.DeliveryCount++
		} else {
			r.PickupCount++
		}
		if !billable(o) {
			r.Voids = append(r.Voids, Void{OrderID: o.ID, Total: o.Total()})
			continue
		}

		r.BillableCount++
		r.Sales += o.Total()
		r.Tax += o.Tax()
		if strings.Contains(strings.ToLower(o.PaymentMethod), "cash") {
			r.CashSales += o.Total()
		}
		for _, it := range o.Items() {
			counts[it.Name] += it.Quantity
		}
	}

	r.CardSales = r.Sales - r.CashSales
	if r.BillableCount > 0 {
		r.AverageOrder = r.Sales / float64(r.BillableCount)
	}

	for name, q := range counts {
		r.TopItems = append(r.TopItems, ItemCount{Name: name, Quantity: q})
	}
	sort.Slice(r.TopItems, func(i, j int) bool {
		if r.TopItems[i].Quantity != r.TopItems[j].Quantity {
			return r.TopItems[i].Quantity > r.TopItems[j].Quantity
		}
		return r.TopItems[i].Name < r.TopItems[j].Name
	})
	if len(r.TopItems) > TopItemsLimit {
		r.TopItems = r.TopItems[:TopItemsLimit]
	}
	return r
}

// BuildSalesReport aggregates every billable order.
func BuildSalesReport(orders []*models.Order) SalesReport {
	kept := collection.Filter(orders, billable)
	r := SalesReport{
		OrderCount: len(kept),
		Sales:      collection.Sum(kept, (*models.Order).Total),
		Tax:        collection.Sum(kept, (*models.Order).Tax),
	}
	r.NetRevenue = r.Sales - r.Tax
	return r
}

// BuildDashboard counts orders per status and sums today's billable totals.
func BuildDashboard(orders []*models.Order, today time.Time) Dashboard {
	d := Dashboard{Counts: make(map[models.Status]int, len(models.Statuses))}
	for _, st := range models.Statuses {
		d.Counts[st] = 0
	}
	isToday := onDay(today)
	for _, o := range orders {
		d.Counts[o.Status]++
		if isToday(o) {
			d.TodayOrders++
			if billable(o) {
				d.TodayRevenue += o.Total()
			}
		}
	}
	return d
}

// Rounded returns a copy with every money field rounded to cents.
func (r DailyReport) Rounded() DailyReport {
	r.Sales = pricing.Round2(r.Sales)
	r.Tax = pricing.Round2(r.Tax)
	r.AverageOrder = pricing.Round2(r.AverageOrder)
	r.CashSales = pricing.Round2(r.CashSales)
	r.CardSales = pricing.Round2(r.CardSales)
	r.Voids = collection.Map(r.Voids, func(v Void) Void {
		return Void{OrderID: v.OrderID, Total: pricing.Round2(v.Total)}
	})
	return r
}

func (r SalesReport) Rounded() SalesReport {
	r.Sales = pricing.Round2(r.Sales)
	r.Tax = pricing.Round2(r.Tax)
	r.NetRevenue = pricing.Round2(r.NetRevenue)
	return r
}
