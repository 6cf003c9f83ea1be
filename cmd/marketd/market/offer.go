package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/resource"
)

// ErrNotResourceAdmin is returned when the creating project doesn't administer
// the offered resource. It's a permission failure, distinct from ownership of
// market entities.
var ErrNotResourceAdmin = fmt.Errorf("project doesn't administer the resource: %w", auth.ErrPermissionDenied)

// OfferManager handles the lifecycle of offers.
type OfferManager struct {
	*Manager[market.Offer]
	store  OfferStore
	oracle resource.Oracle
}

func newOfferManager(s OfferStore, o resource.Oracle, now func() time.Time, mm *managerMetrics) *OfferManager {
	d := descriptor[market.Offer]{
		kind:     "offer",
		id:       func(o market.Offer) string { return o.OfferID },
		owner:    func(o market.Offer) string { return o.ProjectID },
		validate: market.ValidateOffer,
		expire:   func(o *market.Offer) { o.Status = market.StatusExpired },
	}
	return &OfferManager{
		Manager: newManager[market.Offer](d, s, now, mm),
		store:   s,
		oracle:  o,
	}
}

// Create persists a new offer. The creating project must administer the
// offered resource, and no other unexpired offer may exist for it.
func (m *OfferManager) Create(ctx context.Context, s auth.Scope, o market.Offer) (created market.Offer, err error) {
	defer m.track(ctx, "create", time.Now(), &err)

	if err := auth.Authorize(s, "", auth.ActionCreate); err != nil {
		return market.Offer{}, err
	}
	o.ProjectID = s.Owner(o.ProjectID)
	if o.ProjectID == "" {
		return market.Offer{}, fmt.Errorf("project id is empty: %w", market.ErrValidation)
	}
	if o.Status == "" {
		o.Status = market.StatusAvailable
	}
	if err := market.ValidateOffer(o); err != nil {
		return market.Offer{}, err
	}

	ok, err := m.oracle.IsResourceAdmin(ctx, o.ResourceType, o.ResourceID, s)
	if errors.Is(err, resource.ErrUnknownResourceType) {
		return market.Offer{}, fmt.Errorf("%s: %w", err, market.ErrValidation)
	}
	if err != nil {
		return market.Offer{}, fmt.Errorf("checking resource ownership: %s", err)
	}
	if !ok {
		return market.Offer{}, fmt.Errorf("%s %s: %w", o.ResourceType, o.ResourceID, ErrNotResourceAdmin)
	}

	created, err = m.store.Create(ctx, o, m.now())
	if err != nil {
		return market.Offer{}, fmt.Errorf("creating offer: %w", err)
	}
	log.Debugf("offer %s created for resource %s", created.OfferID, created.ResourceID)

	return created, nil
}

// GetAllByResourceID lists the offers of a resource, optionally narrowed to a
// status.
func (m *OfferManager) GetAllByResourceID(
	ctx context.Context,
	s auth.Scope,
	resourceID string,
	status market.Status) ([]market.Offer, error) {
	f, err := resourceFilter(resourceID, status)
	if err != nil {
		return nil, err
	}
	return m.GetAll(ctx, s, f)
}

// GetAllUnexpiredByResourceID lists the unexpired offers of a resource,
// optionally restricted to one status.
func (m *OfferManager) GetAllUnexpiredByResourceID(
	ctx context.Context,
	s auth.Scope,
	resourceID string,
	status market.Status) ([]market.Offer, error) {
	f, err := resourceFilter(resourceID, status)
	if err != nil {
		return nil, err
	}
	return m.GetAllUnexpired(ctx, s, f)
}

func resourceFilter(resourceID string, status market.Status) (market.Filter, error) {
	if status != "" {
		if err := market.OrderStatuses.Validate(status); err != nil {
			return market.Filter{}, err
		}
	}
	return market.Filter{ResourceID: resourceID, Status: status}, nil
}

// Update applies u to the offer with the given id.
func (m *OfferManager) Update(ctx context.Context, s auth.Scope, id string, u market.OfferUpdate) (market.Offer, error) {
	return m.mutate(ctx, s, id, "update", u.Apply)
}
