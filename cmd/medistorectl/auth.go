package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func loginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Se connecter et enregistrer la session",
		Long: `Log in with email and password. The session is saved to
client.session_file and reused by the other commands.

When --password is omitted it is read from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			return run(opts, func(ctx context.Context, a *app) error {
				if err := a.provider.Login(ctx, email, password); err != nil {
					return err
				}
				user := a.provider.State().User
				if a.jsonOut {
					return printJSON(user)
				}
				success("Connecté en tant que %s (%s)", user.Email, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Se déconnecter et effacer la session locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				a.provider.Logout(ctx)
				success("Déconnecté")
				return nil
			})
		},
	}
}

func whoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Afficher le compte connecté",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(ctx context.Context, a *app) error {
				if _, err := a.requireSession(); err != nil {
					return err
				}
				me, err := a.api.Me(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(me)
				}
				fmt.Printf("ID:        %s\n", me.ID)
				fmt.Printf("Nom:       %s %s\n", me.Prenom, me.Nom)
				fmt.Printf("Email:     %s\n", me.Email)
				if me.Telephone != "" {
					fmt.Printf("Téléphone: %s\n", me.Telephone)
				}
				fmt.Printf("Rôle:      %s\n", me.Role)
				return nil
			})
		},
	}
}
