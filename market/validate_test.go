package market

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidateBid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	valid := Bid{
		Quantity:  2,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Status:    StatusAvailable,
		Cost:      decimal.NewNullDecimal(decimal.RequireFromString("11.5")),
	}
	require.NoError(t, ValidateBid(valid))

	noCost := valid
	noCost.Cost = decimal.NullDecimal{}
	require.NoError(t, ValidateBid(noCost))

	zeroQuantity := valid
	zeroQuantity.Quantity = 0
	require.True(t, IsValidation(ValidateBid(zeroQuantity)))

	maxQuantity := int64(math.MaxInt32)
	largest := valid
	largest.Quantity = int(maxQuantity)
	require.NoError(t, ValidateBid(largest))
	for _, q := range []int64{maxQuantity + 1, 2*maxQuantity + 3} {
		tooLarge := valid
		tooLarge.Quantity = int(q)
		require.True(t, IsValidation(ValidateBid(tooLarge)), "quantity %d", q)
	}

	inverted := valid
	inverted.EndTime = now.Add(-time.Hour)
	require.True(t, IsValidation(ValidateBid(inverted)))

	negative := valid
	negative.Cost = decimal.NewNullDecimal(decimal.NewFromInt(-1))
	require.True(t, IsValidation(ValidateBid(negative)))

	fulfilled := valid
	fulfilled.Status = StatusFulfilled
	require.True(t, IsValidation(ValidateBid(fulfilled)))
}

func TestValidateOffer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	valid := Offer{
		ResourceID:   "4567",
		ResourceType: IronicNode,
		StartTime:    now.Add(-24 * time.Hour),
		EndTime:      now.Add(24 * time.Hour),
		Status:       StatusAvailable,
		Cost:         decimal.NewNullDecimal(decimal.Zero),
	}
	require.NoError(t, ValidateOffer(valid))

	noResource := valid
	noResource.ResourceID = ""
	require.True(t, IsValidation(ValidateOffer(noResource)))

	negative := valid
	negative.Cost = decimal.NewNullDecimal(decimal.NewFromInt(-1))
	require.True(t, IsValidation(ValidateOffer(negative)))
}

func TestValidateContract(t *testing.T) {
	t.Parallel()

	now := time.Now()
	valid := Contract{
		BidID:     "bid",
		Status:    StatusFulfilled,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Cost:      decimal.NewNullDecimal(decimal.Zero),
	}
	require.NoError(t, ValidateContract(valid))

	noBid := valid
	noBid.BidID = ""
	require.True(t, IsValidation(ValidateContract(noBid)))
}

func TestUpdatesApply(t *testing.T) {
	t.Parallel()

	b := Bid{Status: StatusAvailable, Quantity: 1}
	expired := StatusExpired
	BidUpdate{Status: &expired}.Apply(&b)
	require.Equal(t, StatusExpired, b.Status)
	require.Equal(t, 1, b.Quantity)

	cost := decimal.NewFromInt(3)
	o := Offer{}
	OfferUpdate{Cost: &cost}.Apply(&o)
	require.True(t, o.Cost.Valid)
	require.True(t, o.Cost.Decimal.Equal(cost))
}
