// Command medistorectl is a terminal client for the Elite Médicale store.
// It keeps the login session on disk and applies the same session rules as
// the web storefront.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "medistorectl",
		Short: "Client en ligne de commande pour la boutique Elite Médicale",
		Long: `medistorectl talks to the store API the way the storefront does.

The session token is persisted between runs and verified at startup.
Dashboard commands (admin ...) lose the session when the server answers 401.

Examples:
  medistorectl login --email admin@elite-medicale.tn
  medistorectl products list --category respiratoire
  medistorectl orders create <productId>:2 --devis
  medistorectl admin users`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "api", "", "API base URL (overrides client.base_url)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(
		loginCmd(&opts),
		logoutCmd(&opts),
		whoamiCmd(&opts),
		productsCmd(&opts),
		ordersCmd(&opts),
		contactCmd(&opts),
		adminCmd(&opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mErreur:\033[0m %s\n", err)
		os.Exit(1)
	}
}
