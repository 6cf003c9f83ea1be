package fakemsgbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/flocx/flocx-market/msgbroker"
)

// FakeMsgBroker records published messages in memory, in publication order.
type FakeMsgBroker struct {
	lock sync.Mutex
	msgs []message
	err  error
}

type message struct {
	topic msgbroker.TopicName
	data  []byte
}

var _ msgbroker.MsgBroker = (*FakeMsgBroker)(nil)

// New returns a new FakeMsgBroker.
func New() *FakeMsgBroker {
	return &FakeMsgBroker{}
}

// PublishMsg implements msgbroker.MsgBroker.
func (b *FakeMsgBroker) PublishMsg(_ context.Context, topicName msgbroker.TopicName, data []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.err != nil {
		return b.err
	}
	b.msgs = append(b.msgs, message{topic: topicName, data: data})
	return nil
}

// FailWith makes every following publication fail with err. A nil err restores
// normal behavior.
func (b *FakeMsgBroker) FailWith(err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.err = err
}

// TotalPublished returns the number of messages published in every topic.
func (b *FakeMsgBroker) TotalPublished() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.msgs)
}

// TotalPublishedTopic returns the number of messages published in name.
func (b *FakeMsgBroker) TotalPublishedTopic(name msgbroker.TopicName) int {
	return len(b.topic(name))
}

// GetMsg returns the idx-th message published in name.
func (b *FakeMsgBroker) GetMsg(name msgbroker.TopicName, idx int) ([]byte, error) {
	msgs := b.topic(name)
	if idx >= len(msgs) {
		return nil, fmt.Errorf("topic %s has %d messages, can't get message %d", name, len(msgs), idx)
	}
	return msgs[idx], nil
}

// DecodeMsg unmarshals the idx-th message published in name into v.
func (b *FakeMsgBroker) DecodeMsg(name msgbroker.TopicName, idx int, v interface{}) error {
	data, err := b.GetMsg(name, idx)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (b *FakeMsgBroker) topic(name msgbroker.TopicName) [][]byte {
	b.lock.Lock()
	defer b.lock.Unlock()

	var msgs [][]byte
	for _, m := range b.msgs {
		if m.topic == name {
			msgs = append(msgs, m.data)
		}
	}
	return msgs
}
