package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
)

func productsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Parcourir le catalogue",
		Long: `Browse the product catalog.

Examples:
  medistorectl products list --category respiratoire --page 2
  medistorectl products search cpap
  medistorectl products show <id>`,
	}
	cmd.AddCommand(productsListCmd(opts), productsSearchCmd(opts), productsShowCmd(opts))
	return cmd
}

func productsListCmd(opts *rootOptions) *cobra.Command {
	var f client.ProductFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lister les produits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				list, err := a.api.Products(ctx, f)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(list)
				}
				printProducts(list.Products)
				p := list.Pagination
				fmt.Printf("\nPage %d/%d, %d produit(s)\n", p.Page, p.TotalPages, p.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Category, "category", "", "category")
	cmd.Flags().StringVar(&f.SubCategory, "sub-category", "", "sub-category")
	cmd.Flags().StringVar(&f.Type, "type", "", "product type")
	cmd.Flags().StringVar(&f.Brand, "brand", "", "brand")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "free text filter")
	cmd.Flags().IntVar(&f.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size (server default when 0)")
	return cmd
}

func productsSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Rechercher un produit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				found, err := a.api.SearchProducts(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(found)
				}
				if len(found) == 0 {
					fmt.Println("Aucun produit trouvé")
					return nil
				}
				printProducts(found)
				return nil
			})
		},
	}
}

func productsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Afficher un produit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				p, err := a.api.Product(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(p)
				}
				fmt.Printf("%s (%s)\n", p.Name, p.Brand)
				fmt.Printf("Catégorie: %s", p.Category)
				if p.SubCategory != "" {
					fmt.Printf(" / %s", p.SubCategory)
				}
				fmt.Println()
				fmt.Printf("Prix:      %s\n", price(p.Price))
				fmt.Printf("En stock:  %s\n", yesNo(p.InStock))
				if p.Description != "" {
					fmt.Printf("\n%s\n", p.Description)
				}
				for _, feat := range p.Features {
					fmt.Printf("  • %s\n", feat)
				}
				for _, m := range p.Media {
					fmt.Printf("  [%s] %s\n", m.Type, m.URL)
				}
				return nil
			})
		},
	}
}

func printProducts(products []client.Product) {
	w := newTable("ID", "NOM", "MARQUE", "CATÉGORIE", "PRIX", "STOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 40), p.Brand, p.Category, price(p.Price), yesNo(p.InStock))
	}
	_ = w.Flush()
}
