package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huskymart/huskymart/internal/market"
)

func editCmd() *cobra.Command {
	var (
		title       string
		description string
		category    string
		price       float64
	)

	cmd := &cobra.Command{
		Use:   "edit <listing-id>",
		Short: "Edit one of your listings",
		Long: "Change the title, description, category, or price of a listing\n" +
			"you own. Only the flags you pass are changed.",
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

			var patch market.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("category") {
				c := market.Category(category)
				patch.Category = &c
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}

			l, err := a.repo.Update(cmd.Context(), args[0], patch, s.Identity())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(l)
			}
			fmt.Println("Listing updated:")
			printListing(l)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().Float64Var(&price, "price", 0, "new price")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listing-id>",
		Short: "Delete one of your unsold listings",
		Long: "Permanently remove a listing you own. Sold listings cannot be\n" +
			"deleted; they are part of the buyer's purchase history.",
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

			if err := a.repo.Delete(cmd.Context(), args[0], s.Identity()); err != nil {
				return err
			}

			fmt.Println("Listing deleted.")
			return nil
		},
	}
}
