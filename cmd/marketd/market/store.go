package market

import (
	"context"
	"time"

	"github.com/flocx/flocx-market/market"
)

// Store is the persistence surface shared by every entity kind.
// Get returns market.ErrNotFound for unknown ids, List returns rows ordered by
// creation time, and Update stamps updated_at. Integrity failures are reported
// wrapping market.ErrConstraintViolation.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, f market.Filter) ([]T, error)
	Update(ctx context.Context, e T) (T, error)
	Delete(ctx context.Context, id string) error
}

// BidStore persists bids.
type BidStore interface {
	Store[market.Bid]
	Create(ctx context.Context, b market.Bid) (market.Bid, error)
}

// OfferStore persists offers. Create fails with market.ErrActiveOfferExists if
// another offer for the same resource is unexpired at activeAt. The check and
// the insert are atomic.
type OfferStore interface {
	Store[market.Offer]
	Create(ctx context.Context, o market.Offer, activeAt time.Time) (market.Offer, error)
}

// ContractStore persists contracts. Create inserts the contract and one
// relationship per offer id in a single transaction.
type ContractStore interface {
	Store[market.Contract]
	Create(ctx context.Context, c market.Contract, offerIDs []string) (market.Contract, []market.OfferContractRelationship, error)
}

// RelationshipStore persists offer-contract relationships. They are only
// created through ContractStore.Create.
type RelationshipStore interface {
	Store[market.OfferContractRelationship]
}
