package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huskymart/huskymart/internal/market"
)

func sellCmd() *cobra.Command {
	var (
		title       string
		description string
		category    string
		price       float64
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Create a new listing",
		Example: `  huskymart sell --title "Desk" --price 50 --category "Home Goods"
  huskymart sell --title "Rice cooker" --price 20 --category Kitchen --description "Barely used"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.currentSession()
			if err != nil {
				return err
			}

			l, err := a.repo.Create(cmd.Context(), market.Draft{
				Title:       title,
				Description: description,
				Category:    market.Category(category),
				Price:       price,
			}, s.Identity())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(l)
			}
			fmt.Println("Listing created:")
			printListing(l)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "item title (required)")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().StringVar(&category, "category", "",
		"category (Clothing, Electronics, Kitchen, Home Goods, Misc)")
	cmd.Flags().Float64Var(&price, "price", 0, "asking price")
	cobra.CheckErr(cmd.MarkFlagRequired("title"))
	cobra.CheckErr(cmd.MarkFlagRequired("category"))

	return cmd
}
