package market

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ErrActiveOfferExists is returned when an offer is created for a resource that
// already has an unexpired available offer.
var ErrActiveOfferExists = fmt.Errorf("resource already has an active offer: %w", ErrValidation)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// validateWindow checks that end is after start.
func validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return invalid("end time %s must be after start time %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// validateCost checks that a present cost isn't negative. An absent cost is left
// for the store to reject.
func validateCost(cost decimal.NullDecimal) error {
	if cost.Valid && cost.Decimal.IsNegative() {
		return invalid("cost %s must be non-negative", cost.Decimal)
	}
	return nil
}

// ValidateBid checks the application-level constraints of a bid.
func ValidateBid(b Bid) error {
	if b.Quantity <= 0 {
		return invalid("quantity %d must be greater than zero", b.Quantity)
	}
	if b.Quantity > math.MaxInt32 {
		return invalid("quantity %d exceeds %d", b.Quantity, math.MaxInt32)
	}
	if b.Duration < 0 {
		return invalid("duration %d must be non-negative", b.Duration)
	}
	return firstErr(
		validateWindow(b.StartTime, b.EndTime),
		validateCost(b.Cost),
		OrderStatuses.Validate(b.Status),
	)
}

// ValidateOffer checks the application-level constraints of an offer.
func ValidateOffer(o Offer) error {
	if o.ResourceID == "" {
		return invalid("resource id is empty")
	}
	if o.ResourceType == "" {
		return invalid("resource type is empty")
	}
	return firstErr(
		validateWindow(o.StartTime, o.EndTime),
		validateCost(o.Cost),
		OrderStatuses.Validate(o.Status),
	)
}

// ValidateContract checks the application-level constraints of a contract.
func ValidateContract(c Contract) error {
	if c.BidID == "" {
		return invalid("bid id is empty")
	}
	return firstErr(
		validateWindow(c.StartTime, c.EndTime),
		validateCost(c.Cost),
		ContractStatuses.Validate(c.Status),
	)
}

// ValidateRelationship checks the application-level constraints of an
// offer-contract relationship.
func ValidateRelationship(r OfferContractRelationship) error {
	if r.OfferID == "" || r.ContractID == "" {
		return invalid("offer id and contract id are required")
	}
	return ContractStatuses.Validate(r.Status)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
