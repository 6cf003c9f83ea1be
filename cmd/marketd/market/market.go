package market

import (
	"errors"
	"fmt"

	"github.com/flocx/flocx-market/msgbroker"
	"github.com/flocx/flocx-market/resource"
	logger "github.com/textileio/go-log/v2"
)

var log = logger.Logger("market")

// Deps are the collaborators of a Market.
type Deps struct {
	Bids          BidStore
	Offers        OfferStore
	Contracts     ContractStore
	Relationships RelationshipStore
	Oracle        resource.Oracle
	MsgBroker     msgbroker.MsgBroker
}

// Market groups the lifecycle managers of every entity kind.
type Market struct {
	Bids          *BidManager
	Offers        *OfferManager
	Contracts     *ContractManager
	Relationships *RelationshipManager
}

// New returns a new Market.
func New(deps Deps, opts ...Option) (*Market, error) {
	if deps.Bids == nil || deps.Offers == nil || deps.Contracts == nil || deps.Relationships == nil {
		return nil, errors.New("all entity stores are required")
	}
	if deps.Oracle == nil {
		return nil, errors.New("resource oracle is required")
	}
	if deps.MsgBroker == nil {
		return nil, errors.New("message broker is required")
	}
	cfg := defaultConfig
	for _, op := range opts {
		if err := op(&cfg); err != nil {
			return nil, fmt.Errorf("applying option: %s", err)
		}
	}

	mm := newManagerMetrics()
	return &Market{
		Bids:          newBidManager(deps.Bids, cfg.now, mm),
		Offers:        newOfferManager(deps.Offers, deps.Oracle, cfg.now, mm),
		Contracts:     newContractManager(deps.Contracts, deps.Bids, deps.MsgBroker, cfg.now, mm),
		Relationships: newRelationshipManager(deps.Relationships, cfg.now, mm),
	}, nil
}
