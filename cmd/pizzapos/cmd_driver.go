package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
)

// pizzapos driver …
func newDriverCmd() *cobra.Command {
	var driver string
	cmd := &cobra.Command{
		Use:   "driver",
		Short: "Delivery workflow",
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", "driver", "driver username")

	cmd.AddCommand(&cobra.Command{
		Use:   "available",
		Short: "List unassigned delivery orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				orders, err := app.Services.Drivers.Available()
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim <order-id>",
		Short: "Take a ready delivery order out for delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				o, err := app.Services.Drivers.Claim(asActor(ctx, driver), args[0], driver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is %s: %s\n", o.ID, o.Status.Label(), o.DeliveryAddress)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deliveries",
		Short: "List this driver's orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				orders, err := app.Services.Drivers.Deliveries(driver)
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "complete <order-id>",
		Short: "Mark a delivery as delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				o, err := app.Services.Drivers.Complete(asActor(ctx, driver), args[0], driver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", o.ID, o.Status.Label())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tip <order-id> <amount>",
		Short: "Record a tip for a delivered order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[1])
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				tip, err := app.Services.Drivers.RecordTip(asActor(ctx, driver), args[0], driver, amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s tip on %s\n", money(tip.Amount), tip.OrderID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tips",
		Short: "Show this driver's tip ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				sum, err := app.Services.Drivers.Tips(driver)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "AT\tORDER\tAMOUNT")
				for _, t := range sum.Tips {
					fmt.Fprintf(w, "%s\t%s\t%s\n", t.Timestamp.Local().Format(time.DateTime), t.OrderID, money(t.Amount))
				}
				fmt.Fprintf(w, "\tTotal\t%s\n", money(sum.Total))
				return w.Flush()
			})
		},
	})

	return cmd
}
