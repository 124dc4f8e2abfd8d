package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Show your own listings, sold or not",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.currentSession()
			if err != nil {
				return err
			}

			listings, err := a.repo.ListBySeller(cmd.Context(), s.Identity())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(listings)
			}
			if len(listings) == 0 {
				fmt.Println("You have no listings yet.")
				return nil
			}
			return printListingsTable(listings)
		},
	}
}

func purchasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purchases",
		Short: "Show items you have bought",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.currentSession()
			if err != nil {
				return err
			}

			listings, err := a.repo.ListByBuyer(cmd.Context(), s.Identity())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(listings)
			}
			if len(listings) == 0 {
				fmt.Println("You have not bought anything yet.")
				return nil
			}
			return printListingsTable(listings)
		},
	}
}
