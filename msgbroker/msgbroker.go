package msgbroker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/market"
)

// MsgBroker is a message-broker for async message communication.
type MsgBroker interface {
	// PublishMsg publishes a message to the desired topic.
	PublishMsg(ctx context.Context, topicName TopicName, data []byte) error
}

// TopicName is a topic name.
type TopicName string

const (
	// ContractCreatedTopic is the topic name for contract-created messages.
	ContractCreatedTopic TopicName = "contract-created"
	// EntityExpiredTopic is the topic name for entity-expired messages.
	EntityExpiredTopic TopicName = "entity-expired"
)

// ContractCreated is the payload of contract-created messages.
type ContractCreated struct {
	ContractID string    `json:"contract_id"`
	BidID      string    `json:"bid_id"`
	ProjectID  string    `json:"project_id"`
	OfferIDs   []string  `json:"offer_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntityExpired is the payload of entity-expired messages.
type EntityExpired struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	EndTime   time.Time `json:"end_time"`
	ExpiredAt time.Time `json:"expired_at"`
}

// PublishMsgContractCreated publishes a message to the contract-created topic.
func PublishMsgContractCreated(ctx context.Context, mb MsgBroker, c market.Contract, offerIDs []string) error {
	if c.ContractID == "" {
		return errors.New("contract-id is empty")
	}
	if len(offerIDs) == 0 {
		return errors.New("offer-ids is empty")
	}
	msg := ContractCreated{
		ContractID: c.ContractID,
		BidID:      c.BidID,
		ProjectID:  c.ProjectID,
		OfferIDs:   offerIDs,
		CreatedAt:  c.CreatedAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling contract-created message: %s", err)
	}
	if err := mb.PublishMsg(ctx, ContractCreatedTopic, data); err != nil {
		return fmt.Errorf("publishing contract-created message: %s", err)
	}
	return nil
}

// PublishMsgEntityExpired publishes a message to the entity-expired topic.
func PublishMsgEntityExpired(ctx context.Context, mb MsgBroker, kind, id string, endTime time.Time) error {
	if kind == "" {
		return errors.New("kind is empty")
	}
	if id == "" {
		return errors.New("id is empty")
	}
	msg := EntityExpired{
		Kind:      kind,
		ID:        id,
		EndTime:   endTime,
		ExpiredAt: time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling entity-expired message: %s", err)
	}
	if err := mb.PublishMsg(ctx, EntityExpiredTopic, data); err != nil {
		return fmt.Errorf("publishing entity-expired message: %s", err)
	}
	return nil
}
