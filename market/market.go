package market

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when entity fields violate an application-level constraint.
	ErrValidation = errors.New("validation failed")
	// ErrConstraintViolation is returned when the store rejects a write because of an
	// integrity constraint (missing required field, uniqueness clash, dangling reference).
	ErrConstraintViolation = errors.New("constraint violation")
)

// ResourceType is the kind of physical or virtual resource an offer refers to.
type ResourceType string

// IronicNode is a bare-metal node managed by Ironic.
const IronicNode ResourceType = "ironic_node"

// Bid is demand for resources.
type Bid struct {
	BidID        string                 `json:"bid_id"`
	CreatorBidID string                 `json:"creator_bid_id"`
	CreatorID    string                 `json:"creator_id"`
	Quantity     int                    `json:"quantity"`
	StartTime    time.Time              `json:"start_time"`
	EndTime      time.Time              `json:"end_time"`
	Duration     int64                  `json:"duration"`
	Status       Status                 `json:"status"`
	ConfigQuery  map[string]interface{} `json:"config_query"`
	Cost         decimal.NullDecimal    `json:"cost"`
	ProjectID    string                 `json:"project_id"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Offer is supply of a specific resource.
type Offer struct {
	OfferID      string                 `json:"offer_id"`
	ProviderID   string                 `json:"provider_id"`
	ProjectID    string                 `json:"project_id"`
	ResourceID   string                 `json:"resource_id"`
	ResourceType ResourceType           `json:"resource_type"`
	StartTime    time.Time              `json:"start_time"`
	EndTime      time.Time              `json:"end_time"`
	Status       Status                 `json:"status"`
	Config       map[string]interface{} `json:"config"`
	Cost         decimal.NullDecimal    `json:"cost"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Contract is an agreement joining one Bid to one or more Offers. The offers are
// linked through OfferContractRelationship rows.
type Contract struct {
	ContractID  string              `json:"contract_id"`
	TimeCreated time.Time           `json:"time_created"`
	Status      Status              `json:"status"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	Cost        decimal.NullDecimal `json:"cost"`
	BidID       string              `json:"bid_id"`
	ProjectID   string              `json:"project_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OfferContractRelationship records that an Offer was allocated to a Contract.
type OfferContractRelationship struct {
	OfferContractRelationshipID string    `json:"offer_contract_relationship_id"`
	OfferID                     string    `json:"offer_id"`
	ContractID                  string    `json:"contract_id"`
	Status                      Status    `json:"status"`
	TimeCreated                 time.Time `json:"time_created"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`

	// ContractEndTime is read from the parent contract and isn't stored on the
	// relationship itself.
	ContractEndTime time.Time `json:"-"`
}

// Filter narrows a listing. Zero-valued fields don't filter.
type Filter struct {
	ProjectID  string
	Status     Status
	ResourceID string
	OfferID    string
	ContractID string

	// ActiveAt keeps only entities unexpired at the given instant.
	ActiveAt time.Time
	// LapsedAt keeps only available entities whose end time is not after the
	// given instant, i.e. the ones an expiry sweep should transition.
	LapsedAt time.Time
}
