package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func adminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Tableau de bord administrateur",
		Long: `Dashboard commands. They run from a dashboard location, so a 401
from the server ends the local session.`,
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "Lister les utilisateurs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts, "users", func(ctx context.Context, a *app) error {
				users, err := a.api.Users(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(users)
				}
				w := newTable("ID", "NOM", "EMAIL", "RÔLE", "INSCRIT LE")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", u.ID, u.Prenom, u.Nom, u.Email, u.Role, date(u.CreatedAt))
				}
				return w.Flush()
			})
		},
	}
	users.AddCommand(&cobra.Command{
		Use:   "delete <userId>",
		Short: "Supprimer un utilisateur",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts, "users", func(ctx context.Context, a *app) error {
				if err := a.api.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				success("Utilisateur %s supprimé", args[0])
				return nil
			})
		},
	})

	orders := &cobra.Command{
		Use:   "orders",
		Short: "Lister toutes les commandes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts, "orders", func(ctx context.Context, a *app) error {
				orders, err := a.api.Orders(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(orders)
				}
				printOrders(orders, true)
				return nil
			})
		},
	}
	orders.AddCommand(&cobra.Command{
		Use:   "status <orderId> <status>",
		Short: "Changer le statut d'une commande",
		Long:  "Status is one of EN_ATTENTE, CONFIRMEE, EN_COURS, LIVREE, ANNULEE, DEVIS.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts, "orders", func(ctx context.Context, a *app) error {
				order, err := a.api.SetOrderStatus(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				success("Commande %s: %s", order.ID, order.Status)
				return nil
			})
		},
	})

	var output string
	export := &cobra.Command{
		Use:       "export <products.xlsx|orders.csv>",
		Short:     "Exporter le catalogue ou les commandes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"products.xlsx", "orders.csv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if output == "" {
				output = name
			}
			return runDashboard(opts, "export", func(ctx context.Context, a *app) error {
				data, err := a.api.Export(ctx, name)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				success("%s écrit (%d octets)", output, len(data))
				return nil
			})
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "output file (default: export name)")

	cmd.AddCommand(users, orders, export)
	return cmd
}

// runDashboard runs fn from the dashboard page and reports an ended session.
func runDashboard(opts *rootOptions, page string, fn func(ctx context.Context, a *app) error) error {
	return run(opts, func(ctx context.Context, a *app) error {
		if _, err := a.requireSession(); err != nil {
			return err
		}
		a.dashboard(page)
		return a.check(fn(ctx, a))
	})
}
