package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huskymart/huskymart/internal/market"
)

func buyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <listing-id>",
		Short: "Buy a listing",
		Long: "Buy the listing with the given id. Exactly one buyer can win a\n" +
			"listing; if someone beat you to it the command reports that the\n" +
			"item is already sold.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.currentSession()
			if err != nil {
				return err
			}

			snapshot, err := a.repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			bought, err := a.purchases.Purchase(cmd.Context(), *snapshot, s.Identity())
			switch {
			case errors.Is(err, market.ErrAlreadySold):
				return errors.New("too late: this listing has already been sold")
			case errors.Is(err, market.ErrSelfPurchase):
				return errors.New("this is your own listing")
			case err != nil:
				return err
			}

			if jsonOutput() {
				return outputJSON(bought)
			}
			fmt.Println("Purchase complete:")
			printListing(bought)
			return nil
		},
	}
	return cmd
}
