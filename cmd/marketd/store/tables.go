package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/cmd/marketd/store/internal/db"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/storeutil"
)

// Bids is the bid table of a Store.
type Bids struct{ s *Store }

// Create inserts b with a new id.
func (t *Bids) Create(ctx context.Context, b market.Bid) (market.Bid, error) {
	id, err := t.s.newID()
	if err != nil {
		return market.Bid{}, err
	}
	cq, err := toJSONB(b.ConfigQuery)
	if err != nil {
		return market.Bid{}, err
	}
	row, err := t.s.db.CreateBid(ctx, db.CreateBidParams{
		BidID:        id,
		CreatorBidID: b.CreatorBidID,
		CreatorID:    b.CreatorID,
		Quantity:     int32(b.Quantity),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Duration:     b.Duration,
		Status:       string(b.Status),
		ConfigQuery:  cq,
		Cost:         b.Cost,
		ProjectID:    b.ProjectID,
	})
	if err != nil {
		return market.Bid{}, classify("bid", id, err)
	}
	return bidFromDB(row)
}

// Get returns the bid with the given id.
func (t *Bids) Get(ctx context.Context, id string) (market.Bid, error) {
	row, err := t.s.db.GetBid(ctx, id)
	if err != nil {
		return market.Bid{}, classify("bid", id, err)
	}
	return bidFromDB(row)
}

// List returns the bids matching f ordered by creation.
func (t *Bids) List(ctx context.Context, f market.Filter) ([]market.Bid, error) {
	rows, err := t.s.db.ListBids(ctx, db.ListBidsParams{
		ProjectID: f.ProjectID,
		Status:    string(f.Status),
		ActiveAt:  nullTime(f.ActiveAt),
		LapsedAt:  nullTime(f.LapsedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("db list bids: %s", err)
	}
	res := make([]market.Bid, len(rows))
	for i, row := range rows {
		if res[i], err = bidFromDB(row); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Update replaces the mutable fields of the stored bid.
func (t *Bids) Update(ctx context.Context, b market.Bid) (market.Bid, error) {
	cq, err := toJSONB(b.ConfigQuery)
	if err != nil {
		return market.Bid{}, err
	}
	row, err := t.s.db.UpdateBid(ctx, db.UpdateBidParams{
		BidID:       b.BidID,
		Quantity:    int32(b.Quantity),
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Duration:    b.Duration,
		Status:      string(b.Status),
		ConfigQuery: cq,
		Cost:        b.Cost,
	})
	if err != nil {
		return market.Bid{}, classify("bid", b.BidID, err)
	}
	return bidFromDB(row)
}

// Delete removes the bid. Bids referenced by a contract can't be removed.
func (t *Bids) Delete(ctx context.Context, id string) error {
	count, err := t.s.db.DeleteBid(ctx, id)
	return expectOne("bid", id, count, err)
}

func bidFromDB(row db.Bid) (market.Bid, error) {
	cq, err := fromJSONB(row.ConfigQuery)
	if err != nil {
		return market.Bid{}, fmt.Errorf("bid %s config query: %s", row.BidID, err)
	}
	return market.Bid{
		BidID:        row.BidID,
		CreatorBidID: row.CreatorBidID,
		CreatorID:    row.CreatorID,
		Quantity:     int(row.Quantity),
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
		Duration:     row.Duration,
		Status:       market.Status(row.Status),
		ConfigQuery:  cq,
		Cost:         row.Cost,
		ProjectID:    row.ProjectID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// Offers is the offer table of a Store.
type Offers struct{ s *Store }

// Create inserts o with a new id unless another offer for the same resource
// is unexpired at activeAt. Concurrent creations for a resource are
// serialized with an advisory lock held until the transaction ends.
func (t *Offers) Create(ctx context.Context, o market.Offer, activeAt time.Time) (market.Offer, error) {
	id, err := t.s.newID()
	if err != nil {
		return market.Offer{}, err
	}
	cfg, err := toJSONB(o.Config)
	if err != nil {
		return market.Offer{}, err
	}

	var row db.Offer
	err = storeutil.WithTx(ctx, t.s.conn, func(tx *sql.Tx) error {
		q := t.s.db.WithTx(tx)
		if err := q.LockResource(ctx, o.ResourceID); err != nil {
			return fmt.Errorf("locking resource %s: %s", o.ResourceID, err)
		}
		active, err := q.CountActiveOffers(ctx, db.CountActiveOffersParams{
			ResourceID: o.ResourceID,
			ActiveAt:   activeAt,
		})
		if err != nil {
			return fmt.Errorf("counting active offers: %s", err)
		}
		if active > 0 {
			return market.ErrActiveOfferExists
		}
		row, err = q.CreateOffer(ctx, db.CreateOfferParams{
			OfferID:      id,
			ProviderID:   o.ProviderID,
			ProjectID:    o.ProjectID,
			ResourceID:   o.ResourceID,
			ResourceType: string(o.ResourceType),
			StartTime:    o.StartTime,
			EndTime:      o.EndTime,
			Status:       string(o.Status),
			Config:       cfg,
			Cost:         o.Cost,
		})
		return classify("offer", id, err)
	}, storeutil.TxWithIsolation(sql.LevelReadCommitted))
	if err != nil {
		return market.Offer{}, err
	}
	return offerFromDB(row)
}

// Get returns the offer with the given id.
func (t *Offers) Get(ctx context.Context, id string) (market.Offer, error) {
	row, err := t.s.db.GetOffer(ctx, id)
	if err != nil {
		return market.Offer{}, classify("offer", id, err)
	}
	return offerFromDB(row)
}

// List returns the offers matching f ordered by creation.
func (t *Offers) List(ctx context.Context, f market.Filter) ([]market.Offer, error) {
	rows, err := t.s.db.ListOffers(ctx, db.ListOffersParams{
		ProjectID:  f.ProjectID,
		Status:     string(f.Status),
		ResourceID: f.ResourceID,
		ActiveAt:   nullTime(f.ActiveAt),
		LapsedAt:   nullTime(f.LapsedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("db list offers: %s", err)
	}
	res := make([]market.Offer, len(rows))
	for i, row := range rows {
		if res[i], err = offerFromDB(row); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Update replaces the mutable fields of the stored offer.
func (t *Offers) Update(ctx context.Context, o market.Offer) (market.Offer, error) {
	cfg, err := toJSONB(o.Config)
	if err != nil {
		return market.Offer{}, err
	}
	row, err := t.s.db.UpdateOffer(ctx, db.UpdateOfferParams{
		OfferID:   o.OfferID,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Status:    string(o.Status),
		Config:    cfg,
		Cost:      o.Cost,
	})
	if err != nil {
		return market.Offer{}, classify("offer", o.OfferID, err)
	}
	return offerFromDB(row)
}

// Delete removes the offer. Offers linked to a contract can't be removed.
func (t *Offers) Delete(ctx context.Context, id string) error {
	count, err := t.s.db.DeleteOffer(ctx, id)
	return expectOne("offer", id, count, err)
}

func offerFromDB(row db.Offer) (market.Offer, error) {
	cfg, err := fromJSONB(row.Config)
	if err != nil {
		return market.Offer{}, fmt.Errorf("offer %s config: %s", row.OfferID, err)
	}
	return market.Offer{
		OfferID:      row.OfferID,
		ProviderID:   row.ProviderID,
		ProjectID:    row.ProjectID,
		ResourceID:   row.ResourceID,
		ResourceType: market.ResourceType(row.ResourceType),
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
		Status:       market.Status(row.Status),
		Config:       cfg,
		Cost:         row.Cost,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// Contracts is the contract table of a Store.
type Contracts struct{ s *Store }

// Create inserts c and one relationship per offer id in a single transaction.
func (t *Contracts) Create(
	ctx context.Context,
	c market.Contract,
	offerIDs []string) (market.Contract, []market.OfferContractRelationship, error) {
	id, err := t.s.newID()
	if err != nil {
		return market.Contract{}, nil, err
	}
	relIDs := make([]string, len(offerIDs))
	for i := range offerIDs {
		if relIDs[i], err = t.s.newID(); err != nil {
			return market.Contract{}, nil, err
		}
	}

	var (
		created market.Contract
		rels    []market.OfferContractRelationship
	)
	err = storeutil.WithTx(ctx, t.s.conn, func(tx *sql.Tx) error {
		q := t.s.db.WithTx(tx)
		row, err := q.CreateContract(ctx, db.CreateContractParams{
			ContractID:  id,
			TimeCreated: c.TimeCreated,
			Status:      string(c.Status),
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Cost:        c.Cost,
			BidID:       c.BidID,
			ProjectID:   c.ProjectID,
		})
		if err != nil {
			return classify("contract", id, err)
		}
		created = contractFromDB(row)

		for i, offerID := range offerIDs {
			err := q.CreateRelationship(ctx, db.CreateRelationshipParams{
				OfferContractRelationshipID: relIDs[i],
				OfferID:                     offerID,
				ContractID:                  id,
				Status:                      string(market.StatusAvailable),
			})
			if err != nil {
				return classify("offer_contract_relationship", relIDs[i], err)
			}
		}
		rows, err := q.ListRelationships(ctx, db.ListRelationshipsParams{ContractID: id})
		if err != nil {
			return fmt.Errorf("db list relationships: %s", err)
		}
		rels = make([]market.OfferContractRelationship, len(rows))
		for i, row := range rows {
			rels[i] = relationshipFromDB(db.GetRelationshipRow(row))
		}
		return nil
	})
	if err != nil {
		return market.Contract{}, nil, err
	}
	return created, rels, nil
}

// Get returns the contract with the given id.
func (t *Contracts) Get(ctx context.Context, id string) (market.Contract, error) {
	row, err := t.s.db.GetContract(ctx, id)
	if err != nil {
		return market.Contract{}, classify("contract", id, err)
	}
	return contractFromDB(row), nil
}

// List returns the contracts matching f ordered by creation.
func (t *Contracts) List(ctx context.Context, f market.Filter) ([]market.Contract, error) {
	rows, err := t.s.db.ListContracts(ctx, db.ListContractsParams{
		ProjectID: f.ProjectID,
		Status:    string(f.Status),
		ActiveAt:  nullTime(f.ActiveAt),
		LapsedAt:  nullTime(f.LapsedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("db list contracts: %s", err)
	}
	res := make([]market.Contract, len(rows))
	for i, row := range rows {
		res[i] = contractFromDB(row)
	}
	return res, nil
}

// Update replaces the mutable fields of the stored contract.
func (t *Contracts) Update(ctx context.Context, c market.Contract) (market.Contract, error) {
	row, err := t.s.db.UpdateContract(ctx, db.UpdateContractParams{
		ContractID: c.ContractID,
		Status:     string(c.Status),
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		Cost:       c.Cost,
	})
	if err != nil {
		return market.Contract{}, classify("contract", c.ContractID, err)
	}
	return contractFromDB(row), nil
}

// Delete removes the contract. Its relationships are removed with it.
func (t *Contracts) Delete(ctx context.Context, id string) error {
	count, err := t.s.db.DeleteContract(ctx, id)
	return expectOne("contract", id, count, err)
}

func contractFromDB(row db.Contract) market.Contract {
	return market.Contract{
		ContractID:  row.ContractID,
		TimeCreated: row.TimeCreated,
		Status:      market.Status(row.Status),
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Cost:        row.Cost,
		BidID:       row.BidID,
		ProjectID:   row.ProjectID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// Relationships is the offer-contract relationship table of a Store.
type Relationships struct{ s *Store }

// Get returns the relationship with the given id.
func (t *Relationships) Get(ctx context.Context, id string) (market.OfferContractRelationship, error) {
	row, err := t.s.db.GetRelationship(ctx, id)
	if err != nil {
		return market.OfferContractRelationship{}, classify("offer_contract_relationship", id, err)
	}
	return relationshipFromDB(row), nil
}

// List returns the relationships matching f ordered by creation.
func (t *Relationships) List(ctx context.Context, f market.Filter) ([]market.OfferContractRelationship, error) {
	rows, err := t.s.db.ListRelationships(ctx, db.ListRelationshipsParams{
		OfferID:    f.OfferID,
		ContractID: f.ContractID,
		Status:     string(f.Status),
		ActiveAt:   nullTime(f.ActiveAt),
		LapsedAt:   nullTime(f.LapsedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("db list relationships: %s", err)
	}
	res := make([]market.OfferContractRelationship, len(rows))
	for i, row := range rows {
		res[i] = relationshipFromDB(db.GetRelationshipRow(row))
	}
	return res, nil
}

// Update replaces the status of the stored relationship.
func (t *Relationships) Update(
	ctx context.Context,
	r market.OfferContractRelationship) (market.OfferContractRelationship, error) {
	id := r.OfferContractRelationshipID
	count, err := t.s.db.UpdateRelationshipStatus(ctx, db.UpdateRelationshipStatusParams{
		OfferContractRelationshipID: id,
		Status:                      string(r.Status),
	})
	if err := expectOne("offer_contract_relationship", id, count, err); err != nil {
		return market.OfferContractRelationship{}, err
	}
	return t.Get(ctx, id)
}

// Delete removes the relationship.
func (t *Relationships) Delete(ctx context.Context, id string) error {
	count, err := t.s.db.DeleteRelationship(ctx, id)
	return expectOne("offer_contract_relationship", id, count, err)
}

func relationshipFromDB(row db.GetRelationshipRow) market.OfferContractRelationship {
	return market.OfferContractRelationship{
		OfferContractRelationshipID: row.OfferContractRelationshipID,
		OfferID:                     row.OfferID,
		ContractID:                  row.ContractID,
		Status:                      market.Status(row.Status),
		TimeCreated:                 row.TimeCreated,
		CreatedAt:                   row.CreatedAt,
		UpdatedAt:                   row.UpdatedAt,
		ContractEndTime:             row.ContractEndTime,
	}
}
