// Package market holds the marketplace core: the listing entity and its
// lifecycle rules, the repository over the remote document store, the
// purchase transaction, and the catalog filter.
package market

import (
	"slices"
	"strings"
	"time"
)

// Category classifies a listing. The set is fixed; "All" is a browse-only
// sentinel and never stored on a listing.
type Category string

// Category constants.
const (
	CategoryAll         Category = "All"
	CategoryClothing    Category = "Clothing"
	CategoryElectronics Category = "Electronics"
	CategoryKitchen     Category = "Kitchen"
	CategoryHomeGoods   Category = "Home Goods"
	CategoryMisc        Category = "Misc"
)

// Categories returns the storable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryClothing,
		CategoryElectronics,
		CategoryKitchen,
		CategoryHomeGoods,
		CategoryMisc,
	}
}

// Valid reports whether c may be stored on a listing.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// Listing is a single item offered for sale.
//
// Lifecycle: created unsold with the seller stamped, optionally edited by
// the seller, and at most once transitioned to sold by a purchase, which
// also records the buyer. ID, SellerID and DatePosted never change after
// creation; IsSold never goes back to false.
type Listing struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	DatePosted  time.Time `json:"datePosted"`
	SellerID    string    `json:"sellerID"`
	IsSold      bool      `json:"isSold"`
	BuyerID     string    `json:"buyerID,omitempty"`
}

// Draft carries the seller-supplied fields of a new listing.
type Draft struct {
	Title       string
	Description string
	Category    Category
	Price       float64
}

// Validate checks a draft before any network call is made.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if d.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	return nil
}

// Patch carries a partial edit to a listing. Nil fields are left untouched.
// Sold state and buyer are deliberately absent: the purchase transaction is
// the only path that sets them, which keeps the sold/buyer pairing intact.
type Patch struct {
	Title       *string
	Description *string
	Category    *Category
	Price       *float64
}

// Validate checks the populated patch fields.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if p.Price != nil && *p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Category != nil && !p.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Price == nil
}
