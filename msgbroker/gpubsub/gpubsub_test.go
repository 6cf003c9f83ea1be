package gpubsub

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/flocx/flocx-market/msgbroker"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
	logger "github.com/textileio/go-log/v2"
)

func init() {
	logger.SetAllLoggers(logger.LevelDebug)
}

// TestPublish creates a topic through the broker, subscribes to it with a raw
// pubsub client, and checks the published payload arrives.
func TestPublish(t *testing.T) {
	if os.Getenv("PUBSUB_TESTS") == "" {
		t.Skip("set PUBSUB_TESTS to run against the pubsub emulator")
	}
	launchPubsubEmulator(t)

	ps, err := New("test", "", "test-", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, ps.Close())
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	// First publish creates the topic.
	require.NoError(t, ps.PublishMsg(ctx, msgbroker.ContractCreatedTopic, []byte("warmup")))

	client, err := pubsub.NewClient(ctx, "test")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()
	sub, err := client.CreateSubscription(ctx, "sub-1", pubsub.SubscriptionConfig{
		Topic: client.Topic("test-" + string(msgbroker.ContractCreatedTopic)),
	})
	require.NoError(t, err)

	require.NoError(t, ps.PublishMsg(ctx, msgbroker.ContractCreatedTopic, []byte("duke")))

	received := make(chan []byte, 1)
	rctx, rcancel := context.WithCancel(ctx)
	go func() {
		_ = sub.Receive(rctx, func(_ context.Context, m *pubsub.Message) {
			m.Ack()
			select {
			case received <- m.Data:
			default:
			}
		})
	}()
	defer rcancel()

	select {
	case <-time.After(time.Second * 10):
		t.Fatalf("timed out waiting for message")
	case data := <-received:
		require.Equal(t, []byte("duke"), data)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New("", "", "test-", nil)
	require.Error(t, err)
	_, err = New("test", "", "", nil)
	require.Error(t, err)
}

func launchPubsubEmulator(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	container, err := pool.Run("textile/pubsub-emulator", "latest", []string{})
	require.NoError(t, err)

	err = container.Expire(180)
	require.NoError(t, err)

	time.Sleep(time.Second * 2)
	t.Cleanup(func() {
		err = pool.Purge(container)
		require.NoError(t, err)
	})

	pubsubHost := "127.0.0.1:" + container.GetPort("8085/tcp")
	err = os.Setenv("PUBSUB_EMULATOR_HOST", pubsubHost)
	require.NoError(t, err)
}
