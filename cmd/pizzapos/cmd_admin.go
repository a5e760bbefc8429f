package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
)

// parseDay reads YYYY-MM-DD in local time; empty means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// pizzapos report …
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales reports",
	}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Summarize one day's orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				r, err := app.Services.Admin.DailyReport(day)
				if err != nil {
					return err
				}
				return printDailyReport(cmd, r)
			})
		},
	}
	daily.Flags().StringVar(&date, "date", "", "day to report, YYYY-MM-DD (default today)")
	cmd.AddCommand(daily)

	cmd.AddCommand(&cobra.Command{
		Use:   "sales",
		Short: "Totals across every stored order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				r, err := app.Services.Admin.SalesReport()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Orders\t%d\n", r.OrderCount)
				fmt.Fprintf(w, "Sales\t%s\n", money(r.Sales))
				fmt.Fprintf(w, "Tax\t%s\n", money(r.Tax))
				fmt.Fprintf(w, "Net revenue\t%s\n", money(r.NetRevenue))
				return w.Flush()
			})
		},
	})
	return cmd
}

func printDailyReport(cmd *cobra.Command, r services.DailyReport) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Daily report\t%s\n", r.Date)
	fmt.Fprintf(w, "Orders\t%d (%d billable)\n", r.OrderCount, r.BillableCount)
	fmt.Fprintf(w, "Delivery / pickup\t%d / %d\n", r.DeliveryCount, r.PickupCount)
	fmt.Fprintf(w, "Sales\t%s\n", money(r.Sales))
	fmt.Fprintf(w, "Tax\t%s\n", money(r.Tax))
	fmt.Fprintf(w, "Average order\t%s\n", money(r.AverageOrder))
	fmt.Fprintf(w, "Cash / card\t%s / %s\n", money(r.CashSales), money(r.CardSales))
	fmt.Fprintln(w, "\nTop items\t")
	for _, it := range r.TopItems {
		fmt.Fprintf(w, "  %s\t%d\n", it.Name, it.Quantity)
	}
	if len(r.Voids) > 0 {
		fmt.Fprintln(w, "\nVoids\t")
		for _, v := range r.Voids {
			fmt.Fprintf(w, "  %s\t%s\n", v.OrderID, money(v.Total))
		}
	}
	return w.Flush()
}

// pizzapos reset-sales
func newResetSalesCmd() *cobra.Command {
	var (
		date string
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "reset-sales",
		Short: "Archive and delete one day's orders",
		Long: "Archive every order placed on --date to the storage disk, then delete\n" +
			"those orders from the record store. Refuses to run without --yes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				res, err := app.Services.Admin.ResetSales(asActor(ctx, "admin"), day, yes)
				if errors.Is(err, services.ErrConfirmationRequired) {
					return fmt.Errorf("%w: rerun with --yes to delete %s's orders", err, day.Format(time.DateOnly))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orders; archive at %s\n", len(res.Removed), app.Disk.URL(res.Archive))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to reset, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

// pizzapos backup
func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy every data file to the storage disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				b, err := app.Services.Backup.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d files to %s\n", len(b.Files), b.URL)
				return nil
			})
		},
	}
}

// pizzapos user …
func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var role string
	add := &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				u, err := app.Services.Auth.Signup(ctx, services.SignupInput{Username: args[0], Password: args[1], Role: role})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", u.Username, u.Role)
				return nil
			})
		},
	}
	add.Flags().StringVar(&role, "role", string(models.RoleCustomer), "customer, admin or driver")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				users, err := app.Services.Admin.Users()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "USERNAME\tROLE")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\n", u.Username, u.Role)
				}
				return w.Flush()
			})
		},
	})
	return cmd
}
