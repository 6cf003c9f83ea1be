package market

import (
	"fmt"
	"time"
)

// Status is the lifecycle status of a market entity.
type Status string

const (
	// StatusAvailable is an open entity that can still be matched.
	StatusAvailable Status = "available"
	// StatusClaimed is an entity taken by a counterpart.
	StatusClaimed Status = "claimed"
	// StatusExpired is an entity whose validity window ended.
	StatusExpired Status = "expired"
	// StatusCancelled is an entity withdrawn by its owner.
	StatusCancelled Status = "cancelled"
	// StatusFulfilled is a contract (or contract link) that was honoured.
	StatusFulfilled Status = "fulfilled"
)

// StatusSet is the set of statuses an entity kind accepts.
type StatusSet []Status

var (
	// OrderStatuses are the statuses of bids and offers.
	OrderStatuses = StatusSet{StatusAvailable, StatusClaimed, StatusExpired, StatusCancelled}
	// ContractStatuses are the statuses of contracts and offer-contract relationships.
	ContractStatuses = StatusSet{StatusAvailable, StatusClaimed, StatusExpired, StatusCancelled, StatusFulfilled}
)

// Validate checks that s belongs to the set.
func (ss StatusSet) Validate(s Status) error {
	for _, v := range ss {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("unknown status %q: %w", s, ErrValidation)
}

// Expirable is an entity whose validity depends on its status and end time.
type Expirable interface {
	ExpiryStatus() Status
	ExpiresAt() time.Time
}

// IsUnexpired reports whether e is available and its end time is after now.
// Callers evaluate now once per query so every row is judged against the same instant.
func IsUnexpired(e Expirable, now time.Time) bool {
	return e.ExpiryStatus() == StatusAvailable && e.ExpiresAt().After(now)
}

// IsLapsed reports whether e is still available although its end time passed.
func IsLapsed(e Expirable, now time.Time) bool {
	return e.ExpiryStatus() == StatusAvailable && !e.ExpiresAt().After(now)
}

// ExpiryStatus implements Expirable.
func (b Bid) ExpiryStatus() Status { return b.Status }

// ExpiresAt implements Expirable.
func (b Bid) ExpiresAt() time.Time { return b.EndTime }

// ExpiryStatus implements Expirable.
func (o Offer) ExpiryStatus() Status { return o.Status }

// ExpiresAt implements Expirable.
func (o Offer) ExpiresAt() time.Time { return o.EndTime }

// ExpiryStatus implements Expirable.
func (c Contract) ExpiryStatus() Status { return c.Status }

// ExpiresAt implements Expirable.
func (c Contract) ExpiresAt() time.Time { return c.EndTime }

// ExpiryStatus implements Expirable.
func (r OfferContractRelationship) ExpiryStatus() Status { return r.Status }

// ExpiresAt implements Expirable. A relationship expires with its contract.
func (r OfferContractRelationship) ExpiresAt() time.Time { return r.ContractEndTime }
