package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
)

func contactCmd(opts *rootOptions) *cobra.Command {
	var (
		guest  bool
		sender client.ContactSender
	)

	cmd := &cobra.Command{
		Use:   "contact <message>",
		Short: "Envoyer un message à la boutique",
		Long: `Send a contact message. Logged-in users send it from their account;
with --guest the name and email flags identify the sender.

Examples:
  medistorectl contact "Disponibilité du concentrateur ?"
  medistorectl contact --guest --name "Karim" --email karim@example.com "Bonjour"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			return run(opts, func(ctx context.Context, a *app) error {
				req := client.ContactRequest{Message: message, IsGuest: guest}
				if guest {
					if sender.Nom == "" || sender.Email == "" {
						return errors.New("--name et --email sont requis en mode invité")
					}
					req.User = sender
				} else {
					user, err := a.requireSession()
					if err != nil {
						return err
					}
					req.User = client.ContactSender{
						ID:        user.ID,
						Nom:       user.Nom,
						Prenom:    user.Prenom,
						Email:     user.Email,
						Telephone: user.Telephone,
					}
				}
				if err := a.api.SendContact(ctx, req); err != nil {
					return err
				}
				success("Message envoyé")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&guest, "guest", false, "send without an account")
	cmd.Flags().StringVar(&sender.Nom, "name", "", "guest name")
	cmd.Flags().StringVar(&sender.Email, "email", "", "guest email")
	cmd.Flags().StringVar(&sender.Telephone, "phone", "", "guest phone")
	return cmd
}
