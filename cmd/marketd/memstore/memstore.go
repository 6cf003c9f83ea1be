// Package memstore keeps market entities in memory. It enforces the same
// integrity rules as the Postgres store and backs tests and development runs.
package memstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flocx/flocx-market/market"
	"github.com/oklog/ulid/v2"
)

// Store is an in-memory market store.
type Store struct {
	now func() time.Time

	lock          sync.Mutex
	entropy       *ulid.MonotonicEntropy
	bids          map[string]market.Bid
	offers        map[string]market.Offer
	contracts     map[string]market.Contract
	relationships map[string]market.OfferContractRelationship
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		bids:          map[string]market.Bid{},
		offers:        map[string]market.Offer{},
		contracts:     map[string]market.Contract{},
		relationships: map[string]market.OfferContractRelationship{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bids returns the bid table.
func (s *Store) Bids() *Bids { return &Bids{s: s} }

// Offers returns the offer table.
func (s *Store) Offers() *Offers { return &Offers{s: s} }

// Contracts returns the contract table.
func (s *Store) Contracts() *Contracts { return &Contracts{s: s} }

// Relationships returns the offer-contract relationship table.
func (s *Store) Relationships() *Relationships { return &Relationships{s: s} }

// Counts returns the number of stored bids, offers, contracts and relationships.
func (s *Store) Counts() (bids, offers, contracts, relationships int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.bids), len(s.offers), len(s.contracts), len(s.relationships)
}

// newID must be called with the lock held.
func (s *Store) newID() (string, error) {
	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), s.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		s.entropy = nil
		return s.newID()
	} else if err != nil {
		return "", fmt.Errorf("generating id: %v", err)
	}
	return strings.ToLower(id.String()), nil
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func violation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), market.ErrConstraintViolation)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, market.ErrNotFound)
}

// matches applies the fields every entity kind shares.
func matches(f market.Filter, project string, e market.Expirable) bool {
	if f.ProjectID != "" && project != f.ProjectID {
		return false
	}
	if f.Status != "" && e.ExpiryStatus() != f.Status {
		return false
	}
	if !f.ActiveAt.IsZero() && !market.IsUnexpired(e, f.ActiveAt) {
		return false
	}
	if !f.LapsedAt.IsZero() && !market.IsLapsed(e, f.LapsedAt) {
		return false
	}
	return true
}

func sortByCreation[T any](es []T, createdAt func(T) time.Time, id func(T) string) {
	sort.Slice(es, func(i, j int) bool {
		ci, cj := createdAt(es[i]), createdAt(es[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(es[i]) < id(es[j])
	})
}

// copyMap deep-copies a JSON object so callers never share state with the
// store.
func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	c := make(map[string]interface{}, len(m))
	for k, v := range m {
		c[k] = copyValue(v)
	}
	return c
}

func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return copyMap(v)
	case []interface{}:
		c := make([]interface{}, len(v))
		for i, e := range v {
			c[i] = copyValue(e)
		}
		return c
	default:
		return v
	}
}

func copyBid(b market.Bid) market.Bid {
	b.ConfigQuery = copyMap(b.ConfigQuery)
	return b
}

func copyOffer(o market.Offer) market.Offer {
	o.Config = copyMap(o.Config)
	return o
}
