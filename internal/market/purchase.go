package market

import (
	"context"
	"errors"
	"log/slog"

	"github.com/huskymart/huskymart/internal/identity"
	"github.com/huskymart/huskymart/internal/metrics"
)

// PurchaseService performs the one allowed state transition: marking a
// listing sold and recording the buyer. The caller's snapshot of the
// listing is never trusted; the store-side conditional update is the
// authoritative guard against double-selling, and it needs no client-side
// locking because the store applies predicate and write atomically.
type PurchaseService struct {
	repo *Repository
	log  *slog.Logger
}

// PurchaseOption configures the PurchaseService.
type PurchaseOption func(*PurchaseService)

// WithPurchaseLogger overrides the default logger.
func WithPurchaseLogger(l *slog.Logger) PurchaseOption {
	return func(s *PurchaseService) {
		s.log = l
	}
}

// NewPurchaseService creates a purchase service over the repository.
func NewPurchaseService(repo *Repository, opts ...PurchaseOption) *PurchaseService {
	s := &PurchaseService{
		repo: repo,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Purchase buys the listing in snapshot on behalf of buyer.
//
// A seller buying their own listing is rejected before any network call,
// a short-circuit on the caller's last fetch; the same rule is also part of
// the store-side predicate, so a stale snapshot cannot sneak past it.
//
// On success the returned listing merges the snapshot with the new sold
// state for immediate display; the caller should drop it from any
// still-for-sale view. On a lost race the result is ErrAlreadySold. A
// RemoteError may be retried safely: if the earlier attempt actually
// applied, the retry recognizes this buyer as the recorded winner and
// reports success instead of a false conflict.
func (s *PurchaseService) Purchase(ctx context.Context, snapshot Listing, buyer identity.Identity) (*Listing, error) {
	if snapshot.SellerID == buyer.Email {
		metrics.PurchasesTotal.WithLabelValues("self").Inc()
		return nil, ErrSelfPurchase
	}

	won, err := s.repo.markSold(ctx, snapshot.ID, buyer)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if won {
		metrics.PurchasesTotal.WithLabelValues("won").Inc()
		s.log.Info("purchase completed", "id", snapshot.ID, "buyer", buyer.Email)

		merged := snapshot
		merged.IsSold = true
		merged.BuyerID = buyer.Email
		return &merged, nil
	}

	// Zero documents matched. One read tells apart the possible reasons.
	current, err := s.repo.Get(ctx, snapshot.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	switch {
	case current.SellerID == buyer.Email:
		// The snapshot was stale; it is the buyer's own listing after all.
		metrics.PurchasesTotal.WithLabelValues("self").Inc()
		return nil, ErrSelfPurchase
	case current.IsSold && current.BuyerID == buyer.Email:
		// A retried update that had already applied. Report the win.
		metrics.PurchasesTotal.WithLabelValues("won").Inc()
		return current, nil
	case current.IsSold:
		metrics.PurchasesTotal.WithLabelValues("lost").Inc()
		s.log.Info("purchase lost race", "id", snapshot.ID, "buyer", buyer.Email)
		return nil, ErrAlreadySold
	default:
		// Unsold yet unmatched: the record changed between the two calls.
		// The conditional update is idempotent, so retrying is safe.
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, remoteErr("purchase", errors.New("conditional update did not apply, retry"))
	}
}
