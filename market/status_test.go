package market

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsUnexpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name      string
		status    Status
		end       time.Time
		unexpired bool
		lapsed    bool
	}{
		{name: "available future", status: StatusAvailable, end: now.Add(time.Hour), unexpired: true},
		{name: "available past", status: StatusAvailable, end: now.Add(-time.Hour), lapsed: true},
		{name: "available now", status: StatusAvailable, end: now, lapsed: true},
		{name: "expired future", status: StatusExpired, end: now.Add(time.Hour)},
		{name: "claimed past", status: StatusClaimed, end: now.Add(-time.Hour)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Bid{Status: tt.status, EndTime: tt.end}
			require.Equal(t, tt.unexpired, IsUnexpired(b, now))
			require.Equal(t, tt.lapsed, IsLapsed(b, now))
		})
	}
}

func TestRelationshipExpiresWithContract(t *testing.T) {
	t.Parallel()

	now := time.Now()
	r := OfferContractRelationship{Status: StatusAvailable, ContractEndTime: now.Add(time.Minute)}
	require.True(t, IsUnexpired(r, now))
	require.False(t, IsUnexpired(r, now.Add(time.Hour)))
}

func TestStatusSet(t *testing.T) {
	t.Parallel()

	require.NoError(t, OrderStatuses.Validate(StatusCancelled))
	require.NoError(t, ContractStatuses.Validate(StatusFulfilled))

	err := OrderStatuses.Validate(StatusFulfilled)
	require.True(t, errors.Is(err, ErrValidation))
	err = ContractStatuses.Validate("testing")
	require.True(t, errors.Is(err, ErrValidation))
}
