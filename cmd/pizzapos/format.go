package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

const listTime = "2006-01-02 15:04"

func money(v float64) string { return fmt.Sprintf("$%.2f", pricing.Round2(v)) }

func printOrders(out io.Writer, orders []*models.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLACED\tCUSTOMER\tTYPE\tSTATUS\tDRIVER\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderDate.Local().Format(listTime), o.CustomerUsername, o.Type,
			o.Status.Label(), dash(o.AssignedDriver), money(o.Total()))
	}
	return w.Flush()
}

func printOrder(out io.Writer, o *models.Order) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Order\t%s\n", o.ID)
	fmt.Fprintf(w, "Customer\t%s\n", o.CustomerUsername)
	fmt.Fprintf(w, "Type\t%s\n", o.Type)
	fmt.Fprintf(w, "Status\t%s\n", o.Status.Label())
	if o.Type == models.Delivery {
		fmt.Fprintf(w, "Address\t%s\n", o.DeliveryAddress)
		fmt.Fprintf(w, "Driver\t%s\n", dash(o.AssignedDriver))
	}
	if o.PaymentMethod != "" {
		fmt.Fprintf(w, "Payment\t%s\n", o.PaymentMethod)
	}
	if !o.OrderDate.IsZero() {
		fmt.Fprintf(w, "Placed\t%s\n", o.OrderDate.Local().Format(time.DateTime))
	}
	fmt.Fprintln(w)
	for _, it := range o.Items() {
		fmt.Fprintf(w, "  %d x %s\t%s\t%s\n", it.Quantity, it.Name, describe(it), money(it.TotalPrice()))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Subtotal\t%s\n", money(o.Subtotal()))
	fmt.Fprintf(w, "Tax\t%s\n", money(o.Tax()))
	fmt.Fprintf(w, "Total\t%s\n", money(o.Total()))
	return w.Flush()
}

func printEvents(out io.Writer, events []models.OrderEvent) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tEVENT\tFROM\tTO\tACTOR")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Event, dash(string(e.From)), e.To, dash(e.Actor))
	}
	return w.Flush()
}

func describe(it models.OrderItem) string {
	if it.Type == models.ItemBeverage {
		return it.BeverageSize.Label()
	}
	parts := []string{it.PizzaSize.Label(), it.CrustType.Label()}
	if len(it.Toppings) > 0 {
		parts = append(parts, strings.Join(it.Toppings, ", "))
	}
	return strings.Join(parts, " / ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
