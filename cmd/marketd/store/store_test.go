package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/tests"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Now().UTC().Truncate(time.Second)

func newStore(t *testing.T) *Store {
	u, err := tests.PostgresURL()
	require.NoError(t, err)
	s, err := New(u)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func newBid(project, creatorBidID string) market.Bid {
	return market.Bid{
		CreatorBidID: creatorBidID,
		CreatorID:    "user-1",
		Quantity:     1,
		StartTime:    now,
		EndTime:      now.Add(time.Hour),
		Duration:     3600,
		Status:       market.StatusAvailable,
		ConfigQuery:  map[string]interface{}{"memory_mb": float64(2048)},
		Cost:         decimal.NewNullDecimal(decimal.RequireFromString("10.25")),
		ProjectID:    project,
	}
}

func newOffer(project, resourceID string) market.Offer {
	return market.Offer{
		ProviderID:   "provider-1",
		ProjectID:    project,
		ResourceID:   resourceID,
		ResourceType: market.IronicNode,
		StartTime:    now,
		EndTime:      now.Add(time.Hour),
		Status:       market.StatusAvailable,
		Config:       map[string]interface{}{"cpus": float64(4)},
		Cost:         decimal.NewNullDecimal(decimal.NewFromInt(7)),
	}
}

func TestBidRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	created, err := s.Bids().Create(ctx, newBid("p1", "c-1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.BidID)
	require.False(t, created.CreatedAt.IsZero())
	require.True(t, created.StartTime.Equal(now))
	require.Equal(t, float64(2048), created.ConfigQuery["memory_mb"])
	require.True(t, created.Cost.Decimal.Equal(decimal.RequireFromString("10.25")))

	got, err := s.Bids().Get(ctx, created.BidID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	created.Status = market.StatusClaimed
	created.ConfigQuery = nil
	updated, err := s.Bids().Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, market.StatusClaimed, updated.Status)
	require.Nil(t, updated.ConfigQuery)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, s.Bids().Delete(ctx, created.BidID))
	_, err = s.Bids().Get(ctx, created.BidID)
	require.ErrorIs(t, err, market.ErrNotFound)
	require.ErrorIs(t, s.Bids().Delete(ctx, created.BidID), market.ErrNotFound)
	_, err = s.Bids().Update(ctx, created)
	require.ErrorIs(t, err, market.ErrNotFound)
}

func TestBidConstraints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	t.Run("null cost", func(t *testing.T) {
		b := newBid("p1", "c-null")
		b.Cost = decimal.NullDecimal{}
		_, err := s.Bids().Create(ctx, b)
		require.ErrorIs(t, err, market.ErrConstraintViolation)
	})
	t.Run("negative quantity", func(t *testing.T) {
		b := newBid("p1", "c-qty")
		b.Quantity = -1
		_, err := s.Bids().Create(ctx, b)
		require.ErrorIs(t, err, market.ErrConstraintViolation)
	})
	t.Run("creator bid id unique among available", func(t *testing.T) {
		first, err := s.Bids().Create(ctx, newBid("p1", "c-dup"))
		require.NoError(t, err)
		_, err = s.Bids().Create(ctx, newBid("p1", "c-dup"))
		require.ErrorIs(t, err, market.ErrConstraintViolation)

		first.Status = market.StatusExpired
		_, err = s.Bids().Update(ctx, first)
		require.NoError(t, err)
		_, err = s.Bids().Create(ctx, newBid("p1", "c-dup"))
		require.NoError(t, err)
	})
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	var ids []string
	for i, project := range []string{"p1", "p2", "p1", "p1"} {
		b := newBid(project, string(rune('a'+i)))
		switch i {
		case 2:
			b.StartTime = now.Add(-2 * time.Hour)
			b.EndTime = now.Add(-time.Hour)
		case 3:
			b.Status = market.StatusCancelled
		}
		created, err := s.Bids().Create(ctx, b)
		require.NoError(t, err)
		ids = append(ids, created.BidID)
	}

	all, err := s.Bids().List(ctx, market.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := range all {
		require.Equal(t, ids[i], all[i].BidID)
	}

	own, err := s.Bids().List(ctx, market.Filter{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, own, 3)

	active, err := s.Bids().List(ctx, market.Filter{ProjectID: "p1", ActiveAt: now})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, ids[0], active[0].BidID)

	lapsed, err := s.Bids().List(ctx, market.Filter{LapsedAt: now})
	require.NoError(t, err)
	require.Len(t, lapsed, 1)
	require.Equal(t, ids[2], lapsed[0].BidID)

	cancelled, err := s.Bids().List(ctx, market.Filter{Status: market.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
}

func TestOfferActiveDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	first, err := s.Offers().Create(ctx, newOffer("p1", "node-1"), now)
	require.NoError(t, err)
	_, err = s.Offers().Create(ctx, newOffer("p1", "node-1"), now)
	require.ErrorIs(t, err, market.ErrActiveOfferExists)
	require.ErrorIs(t, err, market.ErrValidation)

	first.Status = market.StatusExpired
	_, err = s.Offers().Update(ctx, first)
	require.NoError(t, err)
	_, err = s.Offers().Create(ctx, newOffer("p1", "node-1"), now)
	require.NoError(t, err)

	byResource, err := s.Offers().List(ctx, market.Filter{ResourceID: "node-1"})
	require.NoError(t, err)
	require.Len(t, byResource, 2)
}

func TestOfferConcurrentCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	const n = 8
	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		created int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Offers().Create(ctx, newOffer("p1", "node-race"), now); err == nil {
				lock.Lock()
				created++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created)
}

func TestContractWithRelationships(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	b, err := s.Bids().Create(ctx, newBid("p1", "c-contract"))
	require.NoError(t, err)
	var offerIDs []string
	for _, r := range []string{"node-a", "node-b"} {
		o, err := s.Offers().Create(ctx, newOffer("p2", r), now)
		require.NoError(t, err)
		offerIDs = append(offerIDs, o.OfferID)
	}
	c := market.Contract{
		TimeCreated: now,
		Status:      market.StatusAvailable,
		StartTime:   now,
		EndTime:     now.Add(time.Hour),
		Cost:        decimal.NewNullDecimal(decimal.NewFromInt(12)),
		BidID:       b.BidID,
		ProjectID:   b.ProjectID,
	}

	t.Run("dangling offer rolls back", func(t *testing.T) {
		_, _, err := s.Contracts().Create(ctx, c, append([]string{"missing"}, offerIDs...))
		require.ErrorIs(t, err, market.ErrConstraintViolation)
		contracts, err := s.Contracts().List(ctx, market.Filter{})
		require.NoError(t, err)
		require.Empty(t, contracts)
		rels, err := s.Relationships().List(ctx, market.Filter{})
		require.NoError(t, err)
		require.Empty(t, rels)
	})

	created, rels, err := s.Contracts().Create(ctx, c, offerIDs)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	for i, r := range rels {
		require.Equal(t, offerIDs[i], r.OfferID)
		require.Equal(t, created.ContractID, r.ContractID)
		require.True(t, r.ContractEndTime.Equal(created.EndTime))
	}

	got, err := s.Contracts().Get(ctx, created.ContractID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	rel, err := s.Relationships().Get(ctx, rels[0].OfferContractRelationshipID)
	require.NoError(t, err)
	require.Equal(t, rels[0], rel)

	rel.Status = market.StatusFulfilled
	rel, err = s.Relationships().Update(ctx, rel)
	require.NoError(t, err)
	require.Equal(t, market.StatusFulfilled, rel.Status)
	active, err := s.Relationships().List(ctx, market.Filter{ContractID: created.ContractID, ActiveAt: now})
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.ErrorIs(t, s.Bids().Delete(ctx, b.BidID), market.ErrConstraintViolation)
	require.ErrorIs(t, s.Offers().Delete(ctx, offerIDs[0]), market.ErrConstraintViolation)

	require.NoError(t, s.Contracts().Delete(ctx, created.ContractID))
	left, err := s.Relationships().List(ctx, market.Filter{ContractID: created.ContractID})
	require.NoError(t, err)
	require.Empty(t, left)
	require.NoError(t, s.Offers().Delete(ctx, offerIDs[0]))
	require.NoError(t, s.Bids().Delete(ctx, b.BidID))
}
