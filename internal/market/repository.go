package market

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/huskymart/huskymart/internal/atlas"
	"github.com/huskymart/huskymart/internal/identity"
)

const defaultCollection = "listings"

// Repository owns the canonical listing representation and translates
// between it and the store's query/update vocabulary. Every write is a
// filtered single-document operation keyed by id, never a blind overwrite,
// and ownership checks ride inside the write predicate itself, so they hold
// at the store even when the caller's snapshot is stale.
type Repository struct {
	store      *atlas.Client
	collection string
	log        *slog.Logger
	nowFunc    func() time.Time
}

// RepositoryOption configures the Repository.
type RepositoryOption func(*Repository)

// WithCollection overrides the default "listings" collection name.
func WithCollection(name string) RepositoryOption {
	return func(r *Repository) {
		r.collection = name
	}
}

// WithRepositoryLogger overrides the default logger.
func WithRepositoryLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.log = l
	}
}

// WithNowFunc overrides the time source for testing.
func WithNowFunc(f func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.nowFunc = f
	}
}

// NewRepository creates a listing repository over the given store client.
func NewRepository(store *atlas.Client, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store:      store,
		collection: defaultCollection,
		log:        slog.Default(),
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// listingDoc is the wire form of a Listing. BuyerID is absent until a
// purchase sets it, matching the sold/buyer pairing invariant.
type listingDoc struct {
	ID          atlas.OID `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	DatePosted  time.Time `json:"datePosted"`
	SellerID    string    `json:"sellerID"`
	IsSold      bool      `json:"isSold"`
	BuyerID     string    `json:"buyerID,omitempty"`
}

func (d listingDoc) toListing() Listing {
	return Listing{
		ID:          string(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		DatePosted:  d.DatePosted,
		SellerID:    d.SellerID,
		IsSold:      d.IsSold,
		BuyerID:     d.BuyerID,
	}
}

// Create validates the draft, stamps the seller identity and creation
// metadata, and persists one new unsold document.
func (r *Repository) Create(ctx context.Context, draft Draft, seller identity.Identity) (*Listing, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	doc := listingDoc{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Price:       draft.Price,
		DatePosted:  r.nowFunc().UTC(),
		SellerID:    seller.Email,
		IsSold:      false,
	}

	id, err := r.store.InsertOne(ctx, r.collection, doc)
	if err != nil {
		return nil, remoteErr("create", err)
	}

	r.log.Info("listing created", "id", id, "seller", seller.Email, "title", draft.Title)

	doc.ID = atlas.OID(id)
	l := doc.toListing()
	return &l, nil
}

// ListActive returns every unsold listing matching the filter. The filter
// is pushed down to the store; each call is a fresh fetch with no caching.
func (r *Repository) ListActive(ctx context.Context, f Filter) ([]Listing, error) {
	q := f.query()
	q["isSold"] = false
	return r.find(ctx, "list active", q)
}

// ListBySeller returns all listings, sold or not, owned by seller.
func (r *Repository) ListBySeller(ctx context.Context, seller identity.Identity) ([]Listing, error) {
	return r.find(ctx, "list by seller", map[string]any{"sellerID": seller.Email})
}

// ListByBuyer returns all listings purchased by buyer.
func (r *Repository) ListByBuyer(ctx context.Context, buyer identity.Identity) ([]Listing, error) {
	return r.find(ctx, "list by buyer", map[string]any{"buyerID": buyer.Email})
}

func (r *Repository) find(ctx context.Context, op string, filter map[string]any) ([]Listing, error) {
	var docs []listingDoc
	if err := r.store.Find(ctx, r.collection, filter, &docs); err != nil {
		return nil, remoteErr(op, err)
	}

	out := make([]Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toListing())
	}
	return out, nil
}

// Get fetches a single listing by id.
func (r *Repository) Get(ctx context.Context, id string) (*Listing, error) {
	var doc listingDoc
	found, err := r.store.FindOne(ctx, r.collection, byID(id), &doc)
	if err != nil {
		return nil, remoteErr("get", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	l := doc.toListing()
	return &l, nil
}

// Update applies a partial edit to a listing the requester owns. Ownership
// is part of the update predicate, so a non-owner's request matches nothing
// and the stored record is left untouched.
func (r *Repository) Update(ctx context.Context, id string, patch Patch, requester identity.Identity) (*Listing, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, &ValidationError{Field: "patch", Reason: "no fields to update"}
	}

	set := map[string]any{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = string(*patch.Category)
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	filter := byID(id)
	filter["sellerID"] = requester.Email

	res, err := r.store.UpdateOne(ctx, r.collection, filter, map[string]any{"$set": set})
	if err != nil {
		return nil, remoteErr("update", err)
	}

	if res.MatchedCount == 0 {
		// Unknown id and wrong owner both match nothing; one read tells
		// them apart.
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, &AuthorizationError{ID: id, Requester: requester.Email}
	}

	r.log.Info("listing updated", "id", id, "seller", requester.Email)
	return r.Get(ctx, id)
}

// Delete removes a listing the requester owns, provided it is still unsold.
// Sold listings stay put so the buyer's purchase history survives.
func (r *Repository) Delete(ctx context.Context, id string, requester identity.Identity) error {
	filter := byID(id)
	filter["sellerID"] = requester.Email
	filter["isSold"] = false

	deleted, err := r.store.DeleteOne(ctx, r.collection, filter)
	if err != nil {
		return remoteErr("delete", err)
	}
	if deleted > 0 {
		r.log.Info("listing deleted", "id", id, "seller", requester.Email)
		return nil
	}

	l, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.SellerID != requester.Email {
		return &AuthorizationError{ID: id, Requester: requester.Email}
	}
	if l.IsSold {
		return ErrAlreadySold
	}
	// Owned, unsold, yet not deleted: the record changed between the two
	// calls. The delete is idempotent, so the caller may simply retry.
	return remoteErr("delete", errors.New("delete did not apply, retry"))
}

// markSold is the purchase transaction's conditional update: set sold+buyer
// only while the listing is still unsold and not the buyer's own. The store
// applies predicate and update atomically, so exactly one racing buyer wins.
// Returns true when this call won the document.
func (r *Repository) markSold(ctx context.Context, id string, buyer identity.Identity) (bool, error) {
	filter := byID(id)
	filter["isSold"] = false
	filter["sellerID"] = map[string]any{"$ne": buyer.Email}

	update := map[string]any{
		"$set": map[string]any{
			"isSold":  true,
			"buyerID": buyer.Email,
		},
	}

	res, err := r.store.UpdateOne(ctx, r.collection, filter, update)
	if err != nil {
		return false, remoteErr("purchase", err)
	}
	return res.MatchedCount > 0, nil
}

func byID(id string) map[string]any {
	return map[string]any{"_id": atlas.ObjectID(id)}
}
