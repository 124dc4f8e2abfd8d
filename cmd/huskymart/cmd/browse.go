package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huskymart/huskymart/internal/market"
)

func browseCmd() *cobra.Command {
	var (
		text     string
		category string
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse listings currently for sale",
		Long: "Browse every unsold listing, optionally narrowed by free text,\n" +
			"category, and price range. Filters combine with AND.",
		Example: `  # Everything for sale
  huskymart browse

  # Electronics under $100
  huskymart browse --category Electronics --max-price 100

  # Free-text search on titles
  huskymart browse --text desk`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			f := market.Filter{
				Text:     text,
				Category: market.Category(category),
			}
			if cmd.Flags().Changed("min-price") {
				f.MinPrice = market.Price(minPrice)
			}
			if cmd.Flags().Changed("max-price") {
				f.MaxPrice = market.Price(maxPrice)
			}

			listings, err := a.repo.ListActive(cmd.Context(), f)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(listings)
			}
			if len(listings) == 0 {
				fmt.Println("Nothing for sale matches.")
				return nil
			}
			return printListingsTable(listings)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "title substring to search for")
	cmd.Flags().StringVar(&category, "category", string(market.CategoryAll),
		"category filter (All, Clothing, Electronics, Kitchen, Home Goods, Misc)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price, inclusive")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price, inclusive")

	return cmd
}
