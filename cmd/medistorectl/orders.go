package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
)

func ordersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Mes commandes",
	}
	cmd.AddCommand(ordersListCmd(opts), ordersCreateCmd(opts))
	return cmd
}

func ordersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lister mes commandes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				if _, err := a.requireSession(); err != nil {
					return err
				}
				orders, err := a.api.MyOrders(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(orders)
				}
				printOrders(orders, false)
				return nil
			})
		},
	}
}

func ordersCreateCmd(opts *rootOptions) *cobra.Command {
	var devis bool

	cmd := &cobra.Command{
		Use:   "create <productId[:quantity]>...",
		Short: "Passer une commande ou demander un devis",
		Long: `Place an order. Each argument is a product id, optionally followed
by ":quantity" (default 1). With --devis the order is a quote request.

Examples:
  medistorectl orders create 3f2a...:2 9bc1...
  medistorectl orders create 3f2a... --devis`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseOrderLines(args)
			if err != nil {
				return err
			}
			return run(opts, func(ctx context.Context, a *app) error {
				if _, err := a.requireSession(); err != nil {
					return err
				}
				order, err := a.api.CreateOrder(ctx, client.CreateOrderRequest{Items: lines, Devis: devis})
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(order)
				}
				success("Commande %s enregistrée (%s), total %s", order.ID, order.Status, price(order.Total))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&devis, "devis", false, "request a quote instead of ordering")
	return cmd
}

// parseOrderLines reads "id" or "id:qty" arguments.
func parseOrderLines(args []string) ([]client.OrderLine, error) {
	lines := make([]client.OrderLine, 0, len(args))
	for _, arg := range args {
		id, qty, found := strings.Cut(arg, ":")
		if id == "" {
			return nil, fmt.Errorf("article invalide %q", arg)
		}
		n := 1
		if found {
			var err error
			n, err = strconv.Atoi(qty)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("quantité invalide dans %q", arg)
			}
		}
		lines = append(lines, client.OrderLine{ProductID: id, Quantity: n})
	}
	return lines, nil
}

func printOrders(orders []client.Order, withCustomer bool) {
	if len(orders) == 0 {
		fmt.Println("Aucune commande")
		return
	}
	headers := []string{"ID", "DATE", "STATUT", "ARTICLES", "TOTAL"}
	if withCustomer {
		headers = append(headers, "CLIENT")
	}
	w := newTable(headers...)
	for _, o := range orders {
		qty := 0
		for _, it := range o.Items {
			qty += it.Quantity
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s", o.ID, date(o.DateCreation), o.Status, qty, price(o.Total))
		if withCustomer {
			customer := "-"
			if o.User != nil {
				customer = o.User.Email
			}
			fmt.Fprintf(w, "\t%s", customer)
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}
