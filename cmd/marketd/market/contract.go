package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/msgbroker"
)

// ContractManager handles the lifecycle of contracts. Destroying a contract
// is authorized against the contract's project and removes its offer-contract
// relationships with it, although those can't be destroyed directly by a
// scoped caller.
type ContractManager struct {
	*Manager[market.Contract]
	store ContractStore
	bids  BidStore
	mb    msgbroker.MsgBroker
}

func newContractManager(
	s ContractStore,
	bids BidStore,
	mb msgbroker.MsgBroker,
	now func() time.Time,
	mm *managerMetrics) *ContractManager {
	d := descriptor[market.Contract]{
		kind:     "contract",
		id:       func(c market.Contract) string { return c.ContractID },
		owner:    func(c market.Contract) string { return c.ProjectID },
		validate: market.ValidateContract,
		expire:   func(c *market.Contract) { c.Status = market.StatusExpired },
	}
	return &ContractManager{
		Manager: newManager[market.Contract](d, s, now, mm),
		store:   s,
		bids:    bids,
		mb:      mb,
	}
}

// Create persists a contract joining c.BidID to the given offers. Only
// administrators create contracts. The contract is owned by the bid's project.
// The contract and its relationships are stored atomically.
func (m *ContractManager) Create(
	ctx context.Context,
	s auth.Scope,
	c market.Contract,
	offerIDs []string) (created market.Contract, err error) {
	defer m.track(ctx, "create", time.Now(), &err)

	if err := auth.RequireAdmin(s, auth.ActionCreate); err != nil {
		return market.Contract{}, err
	}
	if len(offerIDs) == 0 {
		return market.Contract{}, fmt.Errorf("contract without offers: %w", market.ErrValidation)
	}
	seen := make(map[string]struct{}, len(offerIDs))
	for _, id := range offerIDs {
		if id == "" {
			return market.Contract{}, fmt.Errorf("empty offer id: %w", market.ErrValidation)
		}
		if _, ok := seen[id]; ok {
			return market.Contract{}, fmt.Errorf("offer %s listed twice: %w", id, market.ErrValidation)
		}
		seen[id] = struct{}{}
	}
	if c.BidID == "" {
		return market.Contract{}, fmt.Errorf("bid id is empty: %w", market.ErrValidation)
	}
	bid, err := m.bids.Get(ctx, c.BidID)
	if errors.Is(err, market.ErrNotFound) {
		return market.Contract{}, fmt.Errorf("unknown bid %s: %w", c.BidID, market.ErrValidation)
	}
	if err != nil {
		return market.Contract{}, fmt.Errorf("getting bid %s: %w", c.BidID, err)
	}

	c.ProjectID = bid.ProjectID
	if c.Status == "" {
		c.Status = market.StatusAvailable
	}
	if c.TimeCreated.IsZero() {
		c.TimeCreated = m.now()
	}
	if err := market.ValidateContract(c); err != nil {
		return market.Contract{}, err
	}

	created, rels, err := m.store.Create(ctx, c, offerIDs)
	if err != nil {
		return market.Contract{}, fmt.Errorf("creating contract: %w", err)
	}
	log.Debugf("contract %s created for bid %s with %d offers", created.ContractID, created.BidID, len(rels))

	if err := msgbroker.PublishMsgContractCreated(ctx, m.mb, created, offerIDs); err != nil {
		log.Errorf("publishing contract-created for %s: %s", created.ContractID, err)
	}

	return created, nil
}

// Update applies u to the contract with the given id.
func (m *ContractManager) Update(
	ctx context.Context,
	s auth.Scope,
	id string,
	u market.ContractUpdate) (market.Contract, error) {
	return m.mutate(ctx, s, id, "update", u.Apply)
}
