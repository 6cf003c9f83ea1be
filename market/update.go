package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidUpdate holds the bid fields a caller changes. Nil fields are left untouched.
type BidUpdate struct {
	Status      *Status                `json:"status,omitempty"`
	Quantity    *int                   `json:"quantity,omitempty"`
	StartTime   *time.Time             `json:"start_time,omitempty"`
	EndTime     *time.Time             `json:"end_time,omitempty"`
	Duration    *int64                 `json:"duration,omitempty"`
	ConfigQuery map[string]interface{} `json:"config_query,omitempty"`
	Cost        *decimal.Decimal       `json:"cost,omitempty"`
}

// Apply writes the changes into b.
func (u BidUpdate) Apply(b *Bid) {
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.Quantity != nil {
		b.Quantity = *u.Quantity
	}
	if u.StartTime != nil {
		b.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		b.EndTime = *u.EndTime
	}
	if u.Duration != nil {
		b.Duration = *u.Duration
	}
	if u.ConfigQuery != nil {
		b.ConfigQuery = u.ConfigQuery
	}
	if u.Cost != nil {
		b.Cost = decimal.NewNullDecimal(*u.Cost)
	}
}

// OfferUpdate holds the offer fields a caller changes. Nil fields are left untouched.
type OfferUpdate struct {
	Status    *Status                `json:"status,omitempty"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Config    map[string]interface{} `json:"config,omitempty"`
	Cost      *decimal.Decimal       `json:"cost,omitempty"`
}

// Apply writes the changes into o.
func (u OfferUpdate) Apply(o *Offer) {
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.StartTime != nil {
		o.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		o.EndTime = *u.EndTime
	}
	if u.Config != nil {
		o.Config = u.Config
	}
	if u.Cost != nil {
		o.Cost = decimal.NewNullDecimal(*u.Cost)
	}
}

// ContractUpdate holds the contract fields a caller changes. Nil fields are left untouched.
type ContractUpdate struct {
	Status    *Status          `json:"status,omitempty"`
	StartTime *time.Time       `json:"start_time,omitempty"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
}

// Apply writes the changes into c.
func (u ContractUpdate) Apply(c *Contract) {
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.StartTime != nil {
		c.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		c.EndTime = *u.EndTime
	}
	if u.Cost != nil {
		c.Cost = decimal.NewNullDecimal(*u.Cost)
	}
}

// RelationshipUpdate holds the relationship fields a caller changes.
type RelationshipUpdate struct {
	Status *Status `json:"status,omitempty"`
}

// Apply writes the changes into r.
func (u RelationshipUpdate) Apply(r *OfferContractRelationship) {
	if u.Status != nil {
		r.Status = *u.Status
	}
}
