package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/flocx/flocx-market/auth"
	mm "github.com/flocx/flocx-market/cmd/marketd/market"
	"github.com/flocx/flocx-market/market"
)

func bidRoutes(m *mm.BidManager) routes[market.Bid] {
	return routes[market.Bid]{
		list: func(ctx context.Context, s auth.Scope, r *http.Request) ([]market.Bid, error) {
			u, err := unexpired(r)
			if err != nil {
				return nil, err
			}
			if u {
				return m.GetAllUnexpired(ctx, s, market.Filter{})
			}
			return m.GetAllByProjectID(ctx, s)
		},
		get: m.Get,
		create: func(ctx context.Context, s auth.Scope, body io.Reader) (market.Bid, error) {
			var b market.Bid
			if err := decode(body, &b); err != nil {
				return market.Bid{}, err
			}
			return m.Create(ctx, s, b)
		},
		update: func(ctx context.Context, s auth.Scope, id string, body io.Reader) (market.Bid, error) {
			var u market.BidUpdate
			if err := decode(body, &u); err != nil {
				return market.Bid{}, err
			}
			return m.Update(ctx, s, id, u)
		},
		destroy: m.Destroy,
	}
}

func offerRoutes(m *mm.OfferManager) routes[market.Offer] {
	return routes[market.Offer]{
		list: func(ctx context.Context, s auth.Scope, r *http.Request) ([]market.Offer, error) {
			u, err := unexpired(r)
			if err != nil {
				return nil, err
			}
			q := r.URL.Query()
			if resourceID := q.Get("resource_id"); resourceID != "" {
				status := market.Status(q.Get("status"))
				if u {
					return m.GetAllUnexpiredByResourceID(ctx, s, resourceID, status)
				}
				return m.GetAllByResourceID(ctx, s, resourceID, status)
			}
			if u {
				return m.GetAllUnexpired(ctx, s, market.Filter{})
			}
			return m.GetAllByProjectID(ctx, s)
		},
		get: m.Get,
		create: func(ctx context.Context, s auth.Scope, body io.Reader) (market.Offer, error) {
			var o market.Offer
			if err := decode(body, &o); err != nil {
				return market.Offer{}, err
			}
			return m.Create(ctx, s, o)
		},
		update: func(ctx context.Context, s auth.Scope, id string, body io.Reader) (market.Offer, error) {
			var u market.OfferUpdate
			if err := decode(body, &u); err != nil {
				return market.Offer{}, err
			}
			return m.Update(ctx, s, id, u)
		},
		destroy: m.Destroy,
	}
}

// contractRequest is the body of a contract creation.
type contractRequest struct {
	market.Contract
	Offers []string `json:"offers"`
}

func contractRoutes(m *mm.ContractManager) routes[market.Contract] {
	return routes[market.Contract]{
		list: func(ctx context.Context, s auth.Scope, r *http.Request) ([]market.Contract, error) {
			u, err := unexpired(r)
			if err != nil {
				return nil, err
			}
			if u {
				return m.GetAllUnexpired(ctx, s, market.Filter{})
			}
			return m.GetAllByProjectID(ctx, s)
		},
		get: m.Get,
		create: func(ctx context.Context, s auth.Scope, body io.Reader) (market.Contract, error) {
			var req contractRequest
			if err := decode(body, &req); err != nil {
				return market.Contract{}, err
			}
			return m.Create(ctx, s, req.Contract, req.Offers)
		},
		update: func(ctx context.Context, s auth.Scope, id string, body io.Reader) (market.Contract, error) {
			var u market.ContractUpdate
			if err := decode(body, &u); err != nil {
				return market.Contract{}, err
			}
			return m.Update(ctx, s, id, u)
		},
		destroy: m.Destroy,
	}
}

func relationshipRoutes(m *mm.RelationshipManager) routes[market.OfferContractRelationship] {
	return routes[market.OfferContractRelationship]{
		list: func(ctx context.Context, s auth.Scope, r *http.Request) ([]market.OfferContractRelationship, error) {
			u, err := unexpired(r)
			if err != nil {
				return nil, err
			}
			q := r.URL.Query()
			f := market.Filter{OfferID: q.Get("offer_id"), ContractID: q.Get("contract_id")}
			if u {
				return m.GetAllUnexpired(ctx, s, f)
			}
			return m.GetAll(ctx, s, f)
		},
		get: m.Get,
		update: func(
			ctx context.Context,
			s auth.Scope,
			id string,
			body io.Reader) (market.OfferContractRelationship, error) {
			var u market.RelationshipUpdate
			if err := decode(body, &u); err != nil {
				return market.OfferContractRelationship{}, err
			}
			return m.Update(ctx, s, id, u)
		},
		destroy: m.Destroy,
	}
}
