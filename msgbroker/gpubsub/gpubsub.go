package gpubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/flocx/flocx-market/msgbroker"
	logger "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/api/option"
)

var log = logger.Logger("gpubsub")

// PubsubMsgBroker is an implementation of MsgBroker for Google PubSub.
type PubsubMsgBroker struct {
	topicPrefix string
	client      *pubsub.Client
	metrics     metricsCollector

	topicCacheLock sync.Mutex
	topicCache     map[msgbroker.TopicName]*pubsub.Topic
}

var _ msgbroker.MsgBroker = (*PubsubMsgBroker)(nil)

// New returns a new *PubsubMsgBroker. apiKey holds service account credentials in
// JSON; it may be empty when PUBSUB_EMULATOR_HOST is set. Topic names are
// prefixed with topicPrefix so several environments can share a project. A nil
// meter disables metrics.
func New(projectID, apiKey, topicPrefix string, meter *metric.MeterMust) (*PubsubMsgBroker, error) {
	if projectID == "" {
		return nil, errors.New("project-id is empty")
	}
	if topicPrefix == "" {
		return nil, errors.New("topic-prefix is empty")
	}

	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(apiKey)))
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %s", err)
	}

	p := &PubsubMsgBroker{
		topicPrefix: topicPrefix,
		client:      client,
		metrics:     noopMetricsCollector{},
		topicCache:  map[msgbroker.TopicName]*pubsub.Topic{},
	}
	if meter != nil {
		p.initMetrics(*meter)
	}

	return p, nil
}

// PublishMsg publishes a message to the desired topic.
func (p *PubsubMsgBroker) PublishMsg(ctx context.Context, topicName msgbroker.TopicName, data []byte) (err error) {
	start := time.Now()
	defer func() { p.metrics.onPublish(ctx, string(topicName), start, err) }()

	topic, err := p.getTopic(ctx, topicName)
	if err != nil {
		return fmt.Errorf("get topic: %s", err)
	}
	pr := topic.Publish(ctx, &pubsub.Message{Data: data})

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	id, err := pr.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing to pubsub: %s", err)
	}
	log.Debugf("published message %s to %s", id, topicName)

	return nil
}

func (p *PubsubMsgBroker) getTopic(ctx context.Context, name msgbroker.TopicName) (*pubsub.Topic, error) {
	p.topicCacheLock.Lock()
	defer p.topicCacheLock.Unlock()
	topic, ok := p.topicCache[name]
	if ok {
		return topic, nil
	}

	fullName := p.topicPrefix + string(name)
	topic = p.client.Topic(fullName)
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	exist, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic exists: %s", err)
	}
	if !exist {
		log.Warnf("creating topic %s", fullName)
		topic, err = p.client.CreateTopic(ctx, fullName)
		if err != nil {
			return nil, fmt.Errorf("creating topic %s: %s", fullName, err)
		}
	}
	p.topicCache[name] = topic

	return topic, nil
}

// Close flushes pending messages and closes the client.
func (p *PubsubMsgBroker) Close() error {
	p.topicCacheLock.Lock()
	for _, t := range p.topicCache {
		t.Stop()
	}
	p.topicCacheLock.Unlock()

	if err := p.client.Close(); err != nil {
		return fmt.Errorf("closing pubsub client: %s", err)
	}
	return nil
}
