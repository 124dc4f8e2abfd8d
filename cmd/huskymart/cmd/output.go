package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/huskymart/huskymart/internal/market"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printListingsTable(listings []market.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTITLE\tCATEGORY\tPRICE\tSTATUS\tPOSTED\n")
	for i := range listings {
		status := "for sale"
		if listings[i].IsSold {
			status = "sold"
		}
		tw.writef("%s\t%s\t%s\t$%.2f\t%s\t%s\n",
			listings[i].ID,
			listings[i].Title,
			listings[i].Category,
			listings[i].Price,
			status,
			listings[i].DatePosted.Format("2006-01-02"),
		)
	}
	return tw.finish()
}

func printListing(l *market.Listing) {
	fmt.Printf("%s  %s ($%.2f)\n", l.ID, l.Title, l.Price)
	fmt.Printf("  category: %s\n", l.Category)
	if l.Description != "" {
		fmt.Printf("  %s\n", l.Description)
	}
	fmt.Printf("  seller: %s, posted %s\n", l.SellerID, l.DatePosted.Format("2006-01-02"))
	if l.IsSold {
		fmt.Printf("  sold to %s\n", l.BuyerID)
	}
}
