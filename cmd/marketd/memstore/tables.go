package memstore

import (
	"context"
	"time"

	"github.com/flocx/flocx-market/market"
)

// Bids is the bid table of a Store.
type Bids struct{ s *Store }

// Create inserts b with a new id.
func (t *Bids) Create(_ context.Context, b market.Bid) (market.Bid, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()

	id, err := t.s.newID()
	if err != nil {
		return market.Bid{}, err
	}
	b.BidID = id
	if err := t.check(b); err != nil {
		return market.Bid{}, err
	}
	now := t.s.stamp()
	b.CreatedAt, b.UpdatedAt = now, now
	t.s.bids[b.BidID] = copyBid(b)
	return copyBid(b), nil
}

func (t *Bids) check(b market.Bid) error {
	if !b.Cost.Valid {
		return violation("bid cost is null")
	}
	if b.ProjectID == "" {
		return violation("bid project id is null")
	}
	if b.CreatorBidID == "" {
		return violation("bid creator bid id is null")
	}
	if b.Status != market.StatusAvailable {
		return nil
	}
	for _, o := range t.s.bids {
		if o.BidID != b.BidID && o.Status == market.StatusAvailable && o.CreatorBidID == b.CreatorBidID {
			return violation("creator bid id %s already used by available bid %s", b.CreatorBidID, o.BidID)
		}
	}
	return nil
}

// Get returns the bid with the given id.
func (t *Bids) Get(_ context.Context, id string) (market.Bid, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	b, ok := t.s.bids[id]
	if !ok {
		return market.Bid{}, notFound("bid", id)
	}
	return copyBid(b), nil
}

// List returns the bids matching f ordered by creation.
func (t *Bids) List(_ context.Context, f market.Filter) ([]market.Bid, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	var res []market.Bid
	for _, b := range t.s.bids {
		if matches(f, b.ProjectID, b) {
			res = append(res, copyBid(b))
		}
	}
	sortByCreation(res, func(b market.Bid) time.Time { return b.CreatedAt }, func(b market.Bid) string { return b.BidID })
	return res, nil
}

// Update replaces the stored bid.
func (t *Bids) Update(_ context.Context, b market.Bid) (market.Bid, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	old, ok := t.s.bids[b.BidID]
	if !ok {
		return market.Bid{}, notFound("bid", b.BidID)
	}
	if err := t.check(b); err != nil {
		return market.Bid{}, err
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = t.s.stamp()
	t.s.bids[b.BidID] = copyBid(b)
	return copyBid(b), nil
}

// Delete removes the bid. Bids referenced by a contract can't be removed.
func (t *Bids) Delete(_ context.Context, id string) error {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	if _, ok := t.s.bids[id]; !ok {
		return notFound("bid", id)
	}
	for _, c := range t.s.contracts {
		if c.BidID == id {
			return violation("bid %s is referenced by contract %s", id, c.ContractID)
		}
	}
	delete(t.s.bids, id)
	return nil
}

// Offers is the offer table of a Store.
type Offers struct{ s *Store }

// Create inserts o with a new id unless another offer for the same resource
// is unexpired at activeAt.
func (t *Offers) Create(_ context.Context, o market.Offer, activeAt time.Time) (market.Offer, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()

	if err := t.check(o); err != nil {
		return market.Offer{}, err
	}
	for _, other := range t.s.offers {
		if other.ResourceID == o.ResourceID && market.IsUnexpired(other, activeAt) {
			return market.Offer{}, market.ErrActiveOfferExists
		}
	}
	id, err := t.s.newID()
	if err != nil {
		return market.Offer{}, err
	}
	o.OfferID = id
	now := t.s.stamp()
	o.CreatedAt, o.UpdatedAt = now, now
	t.s.offers[o.OfferID] = copyOffer(o)
	return copyOffer(o), nil
}

func (t *Offers) check(o market.Offer) error {
	if !o.Cost.Valid {
		return violation("offer cost is null")
	}
	if o.ProjectID == "" {
		return violation("offer project id is null")
	}
	return nil
}

// Get returns the offer with the given id.
func (t *Offers) Get(_ context.Context, id string) (market.Offer, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	o, ok := t.s.offers[id]
	if !ok {
		return market.Offer{}, notFound("offer", id)
	}
	return copyOffer(o), nil
}

// List returns the offers matching f ordered by creation.
func (t *Offers) List(_ context.Context, f market.Filter) ([]market.Offer, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	var res []market.Offer
	for _, o := range t.s.offers {
		if f.ResourceID != "" && o.ResourceID != f.ResourceID {
			continue
		}
		if matches(f, o.ProjectID, o) {
			res = append(res, copyOffer(o))
		}
	}
	sortByCreation(res, func(o market.Offer) time.Time { return o.CreatedAt }, func(o market.Offer) string { return o.OfferID })
	return res, nil
}

// Update replaces the stored offer.
func (t *Offers) Update(_ context.Context, o market.Offer) (market.Offer, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	old, ok := t.s.offers[o.OfferID]
	if !ok {
		return market.Offer{}, notFound("offer", o.OfferID)
	}
	if err := t.check(o); err != nil {
		return market.Offer{}, err
	}
	o.CreatedAt = old.CreatedAt
	o.UpdatedAt = t.s.stamp()
	t.s.offers[o.OfferID] = copyOffer(o)
	return copyOffer(o), nil
}

// Delete removes the offer. Offers linked to a contract can't be removed.
func (t *Offers) Delete(_ context.Context, id string) error {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	if _, ok := t.s.offers[id]; !ok {
		return notFound("offer", id)
	}
	for _, r := range t.s.relationships {
		if r.OfferID == id {
			return violation("offer %s is linked to contract %s", id, r.ContractID)
		}
	}
	delete(t.s.offers, id)
	return nil
}

// Contracts is the contract table of a Store.
type Contracts struct{ s *Store }

// Create inserts c and one relationship per offer id. Nothing is stored if any
// reference is dangling.
func (t *Contracts) Create(
	_ context.Context,
	c market.Contract,
	offerIDs []string) (market.Contract, []market.OfferContractRelationship, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()

	if err := t.check(c); err != nil {
		return market.Contract{}, nil, err
	}
	seen := map[string]struct{}{}
	for _, oid := range offerIDs {
		if _, ok := t.s.offers[oid]; !ok {
			return market.Contract{}, nil, violation("unknown offer %s", oid)
		}
		if _, ok := seen[oid]; ok {
			return market.Contract{}, nil, violation("offer %s linked twice", oid)
		}
		seen[oid] = struct{}{}
	}

	id, err := t.s.newID()
	if err != nil {
		return market.Contract{}, nil, err
	}
	now := t.s.stamp()
	c.ContractID = id
	c.CreatedAt, c.UpdatedAt = now, now

	rels := make([]market.OfferContractRelationship, len(offerIDs))
	for i, oid := range offerIDs {
		rid, err := t.s.newID()
		if err != nil {
			return market.Contract{}, nil, err
		}
		rels[i] = market.OfferContractRelationship{
			OfferContractRelationshipID: rid,
			OfferID:                     oid,
			ContractID:                  c.ContractID,
			Status:                      market.StatusAvailable,
			TimeCreated:                 now,
			CreatedAt:                   now,
			UpdatedAt:                   now,
			ContractEndTime:             c.EndTime,
		}
	}

	t.s.contracts[c.ContractID] = c
	for _, r := range rels {
		t.s.relationships[r.OfferContractRelationshipID] = r
	}
	return c, rels, nil
}

func (t *Contracts) check(c market.Contract) error {
	if !c.Cost.Valid {
		return violation("contract cost is null")
	}
	if c.ProjectID == "" {
		return violation("contract project id is null")
	}
	if _, ok := t.s.bids[c.BidID]; !ok {
		return violation("unknown bid %s", c.BidID)
	}
	return nil
}

// Get returns the contract with the given id.
func (t *Contracts) Get(_ context.Context, id string) (market.Contract, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	c, ok := t.s.contracts[id]
	if !ok {
		return market.Contract{}, notFound("contract", id)
	}
	return c, nil
}

// List returns the contracts matching f ordered by creation.
func (t *Contracts) List(_ context.Context, f market.Filter) ([]market.Contract, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	var res []market.Contract
	for _, c := range t.s.contracts {
		if matches(f, c.ProjectID, c) {
			res = append(res, c)
		}
	}
	sortByCreation(res,
		func(c market.Contract) time.Time { return c.CreatedAt },
		func(c market.Contract) string { return c.ContractID })
	return res, nil
}

// Update replaces the stored contract.
func (t *Contracts) Update(_ context.Context, c market.Contract) (market.Contract, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	old, ok := t.s.contracts[c.ContractID]
	if !ok {
		return market.Contract{}, notFound("contract", c.ContractID)
	}
	if err := t.check(c); err != nil {
		return market.Contract{}, err
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = t.s.stamp()
	t.s.contracts[c.ContractID] = c
	return c, nil
}

// Delete removes the contract together with its relationships.
func (t *Contracts) Delete(_ context.Context, id string) error {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	if _, ok := t.s.contracts[id]; !ok {
		return notFound("contract", id)
	}
	for rid, r := range t.s.relationships {
		if r.ContractID == id {
			delete(t.s.relationships, rid)
		}
	}
	delete(t.s.contracts, id)
	return nil
}

// Relationships is the offer-contract relationship table of a Store.
type Relationships struct{ s *Store }

// withContract fills the fields read from the parent contract.
func (t *Relationships) withContract(r market.OfferContractRelationship) market.OfferContractRelationship {
	r.ContractEndTime = t.s.contracts[r.ContractID].EndTime
	return r
}

// Get returns the relationship with the given id.
func (t *Relationships) Get(_ context.Context, id string) (market.OfferContractRelationship, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	r, ok := t.s.relationships[id]
	if !ok {
		return market.OfferContractRelationship{}, notFound("offer_contract_relationship", id)
	}
	return t.withContract(r), nil
}

// List returns the relationships matching f ordered by creation.
func (t *Relationships) List(_ context.Context, f market.Filter) ([]market.OfferContractRelationship, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	var res []market.OfferContractRelationship
	for _, r := range t.s.relationships {
		if f.OfferID != "" && r.OfferID != f.OfferID {
			continue
		}
		if f.ContractID != "" && r.ContractID != f.ContractID {
			continue
		}
		r = t.withContract(r)
		if matches(market.Filter{
			Status:   f.Status,
			ActiveAt: f.ActiveAt,
			LapsedAt: f.LapsedAt,
		}, "", r) {
			res = append(res, r)
		}
	}
	sortByCreation(res,
		func(r market.OfferContractRelationship) time.Time { return r.CreatedAt },
		func(r market.OfferContractRelationship) string { return r.OfferContractRelationshipID })
	return res, nil
}

// Update replaces the stored relationship status.
func (t *Relationships) Update(
	_ context.Context,
	r market.OfferContractRelationship) (market.OfferContractRelationship, error) {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	old, ok := t.s.relationships[r.OfferContractRelationshipID]
	if !ok {
		return market.OfferContractRelationship{}, notFound("offer_contract_relationship", r.OfferContractRelationshipID)
	}
	old.Status = r.Status
	old.UpdatedAt = t.s.stamp()
	t.s.relationships[old.OfferContractRelationshipID] = old
	return t.withContract(old), nil
}

// Delete removes the relationship.
func (t *Relationships) Delete(_ context.Context, id string) error {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()
	if _, ok := t.s.relationships[id]; !ok {
		return notFound("offer_contract_relationship", id)
	}
	delete(t.s.relationships, id)
	return nil
}
