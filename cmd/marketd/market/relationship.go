package market

import (
	"context"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
)

// RelationshipManager handles the lifecycle of offer-contract relationships.
// Relationships carry no project of their own: every scope may read them and
// only administrators may change them.
type RelationshipManager struct {
	*Manager[market.OfferContractRelationship]
}

func newRelationshipManager(s RelationshipStore, now func() time.Time, mm *managerMetrics) *RelationshipManager {
	d := descriptor[market.OfferContractRelationship]{
		kind:     "offer_contract_relationship",
		id:       func(r market.OfferContractRelationship) string { return r.OfferContractRelationshipID },
		validate: market.ValidateRelationship,
		expire:   func(r *market.OfferContractRelationship) { r.Status = market.StatusExpired },
	}
	return &RelationshipManager{
		Manager: newManager[market.OfferContractRelationship](d, s, now, mm),
	}
}

// Update applies u to the relationship with the given id.
func (m *RelationshipManager) Update(
	ctx context.Context,
	s auth.Scope,
	id string,
	u market.RelationshipUpdate) (market.OfferContractRelationship, error) {
	return m.mutate(ctx, s, id, "update", u.Apply)
}
