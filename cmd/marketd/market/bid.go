package market

import (
	"context"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"github.com/google/uuid"
)

// BidManager handles the lifecycle of bids.
type BidManager struct {
	*Manager[market.Bid]
	store BidStore
}

func newBidManager(s BidStore, now func() time.Time, mm *managerMetrics) *BidManager {
	d := descriptor[market.Bid]{
		kind:     "bid",
		id:       func(b market.Bid) string { return b.BidID },
		owner:    func(b market.Bid) string { return b.ProjectID },
		validate: market.ValidateBid,
		expire:   func(b *market.Bid) { b.Status = market.StatusExpired },
	}
	return &BidManager{
		Manager: newManager[market.Bid](d, s, now, mm),
		store:   s,
	}
}

// Create persists a new bid. Scoped callers always own the bid they create.
// A missing creator bid id is filled with a random UUID.
func (m *BidManager) Create(ctx context.Context, s auth.Scope, b market.Bid) (created market.Bid, err error) {
	defer m.track(ctx, "create", time.Now(), &err)

	if err := auth.Authorize(s, "", auth.ActionCreate); err != nil {
		return market.Bid{}, err
	}
	b.ProjectID = s.Owner(b.ProjectID)
	if b.ProjectID == "" {
		return market.Bid{}, fmt.Errorf("project id is empty: %w", market.ErrValidation)
	}
	if b.CreatorBidID == "" {
		b.CreatorBidID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = market.StatusAvailable
	}
	if err := market.ValidateBid(b); err != nil {
		return market.Bid{}, err
	}

	created, err = m.store.Create(ctx, b)
	if err != nil {
		return market.Bid{}, fmt.Errorf("creating bid: %w", err)
	}
	log.Debugf("bid %s created for project %s", created.BidID, created.ProjectID)

	return created, nil
}

// Update applies u to the bid with the given id.
func (m *BidManager) Update(ctx context.Context, s auth.Scope, id string, u market.BidUpdate) (market.Bid, error) {
	return m.mutate(ctx, s, id, "update", u.Apply)
}
