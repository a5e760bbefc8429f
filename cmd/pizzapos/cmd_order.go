package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
)

// pizzapos menu
func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the pizza, topping and beverage menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			menu := catalog.Default()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "PIZZA\tNAME\tBASE\tDEFAULT TOPPINGS")
			for _, p := range menu.ListPizzas() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.BasePrice), strings.Join(p.DefaultToppings, ", "))
			}
			fmt.Fprintln(w, "\nTOPPING\tNAME\tPRICE\t")
			for _, t := range menu.ListToppings() {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", t.ID, t.Name, money(t.Price))
			}
			fmt.Fprintln(w, "\nBEVERAGE\tNAME\tPRICES\t")
			for _, b := range menu.ListBeverages() {
				sizes := make([]string, 0, len(b.Prices))
				for size, price := range b.Prices {
					sizes = append(sizes, fmt.Sprintf("%s %s", size, money(price)))
				}
				sort.Strings(sizes)
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", b.ID, b.Name, strings.Join(sizes, ", "))
			}
			return w.Flush()
		},
	}
}

// pizzapos order …
func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place and manage orders",
	}
	cmd.AddCommand(newOrderPlaceCmd())
	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderShowCmd())
	cmd.AddCommand(newOrderAdvanceCmd())
	cmd.AddCommand(newOrderAssignCmd())
	cmd.AddCommand(newOrderCancelCmd())
	return cmd
}

func newOrderPlaceCmd() *cobra.Command {
	var (
		in        services.CheckoutInput
		pizzas    []string
		beverages []string
		quote     bool
	)
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Confirm a new order for a customer",
		Example: `  pizzapos order place --user customer --type delivery --address "12 Sewer Lane" \
    --pizza cowabunga-classic:medium::pepperoni --beverage mutant-ooze:large:2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range pizzas {
				p, err := parsePizza(arg)
				if err != nil {
					return err
				}
				in.Pizzas = append(in.Pizzas, p)
			}
			for _, arg := range beverages {
				b, err := parseBeverage(arg)
				if err != nil {
					return err
				}
				in.Beverages = append(in.Beverages, b)
			}

			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if quote {
					o, err := app.Services.Orders.Quote(in)
					if err != nil {
						return err
					}
					return printOrder(cmd.OutOrStdout(), o)
				}
				o, err := app.Services.Orders.Checkout(asActor(ctx, in.Customer), in)
				if err != nil {
					return err
				}
				return printOrder(cmd.OutOrStdout(), o)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Customer, "user", "", "customer username")
	f.StringVar(&in.CustomerName, "name", "", "customer display name")
	f.StringVar(&in.OrderType, "type", "pickup", "pickup or delivery")
	f.StringVar(&in.DeliveryAddress, "address", "", "delivery address")
	f.StringVar(&in.PaymentMethod, "payment", "", "payment method, e.g. Cash or Visa")
	f.StringVar(&in.SpecialInstructions, "notes", "", "special instructions")
	f.StringArrayVar(&pizzas, "pizza", nil, "pizza as id:size[:crust[:top+top|none[:qty]]] (repeatable)")
	f.StringArrayVar(&beverages, "beverage", nil, "beverage as id:size[:qty] (repeatable)")
	f.BoolVar(&quote, "quote", false, "price the order without saving it")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newOrderListCmd() *cobra.Command {
	var user, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest customer orders first with --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				var (
					orders []*models.Order
					err    error
				)
				if user != "" {
					orders, err = app.Services.Orders.History(user)
				} else {
					orders, err = app.Services.Admin.Orders(status)
				}
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "only this customer's orders")
	cmd.Flags().StringVar(&status, "status", "all", "filter by status")
	return cmd
}

func newOrderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order and its status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				o, err := app.Services.Admin.Order(args[0])
				if err != nil {
					return err
				}
				if err := printOrder(cmd.OutOrStdout(), o); err != nil {
					return err
				}
				events, err := app.Services.Admin.Events(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return printEvents(cmd.OutOrStdout(), events)
			})
		},
	}
}

func newOrderAdvanceCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "advance <order-id> <event>",
		Short: "Apply a kitchen event: start-prep, mark-ready, pick-up or cancel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := models.ParseEvent(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				o, err := app.Services.Admin.Advance(asActor(ctx, actor), args[0], ev, actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", o.ID, o.Status.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "admin", "acting user recorded in the history")
	return cmd
}

func newOrderAssignCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "assign <order-id> <driver>",
		Short: "Hand a ready delivery order to a driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				o, err := app.Services.Admin.AssignDriver(asActor(ctx, actor), args[0], args[1], actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is %s with %s\n", o.ID, o.Status.Label(), o.AssignedDriver)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "admin", "acting user recorded in the history")
	return cmd
}

func newOrderCancelCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order that is not yet delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				o, err := app.Services.Admin.Cancel(asActor(ctx, actor), args[0], actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", o.ID, o.Status.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "admin", "acting user recorded in the history")
	return cmd
}
