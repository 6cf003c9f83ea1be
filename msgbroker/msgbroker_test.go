package msgbroker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/msgbroker"
	"github.com/flocx/flocx-market/msgbroker/fakemsgbroker"
	"github.com/stretchr/testify/require"
)

func TestPublishMsgContractCreated(t *testing.T) {
	t.Parallel()

	mb := fakemsgbroker.New()
	c := market.Contract{ContractID: "c1", BidID: "b1", ProjectID: "5599", CreatedAt: time.Now().UTC()}
	err := msgbroker.PublishMsgContractCreated(context.Background(), mb, c, []string{"o1", "o2"})
	require.NoError(t, err)
	require.Equal(t, 1, mb.TotalPublishedTopic(msgbroker.ContractCreatedTopic))

	data, err := mb.GetMsg(msgbroker.ContractCreatedTopic, 0)
	require.NoError(t, err)
	var msg msgbroker.ContractCreated
	require.NoError(t, json.Unmarshal(data, &msg))
	require.Equal(t, "c1", msg.ContractID)
	require.Equal(t, []string{"o1", "o2"}, msg.OfferIDs)

	err = msgbroker.PublishMsgContractCreated(context.Background(), mb, c, nil)
	require.Error(t, err)
	require.Equal(t, 1, mb.TotalPublished())
}

func TestPublishMsgEntityExpired(t *testing.T) {
	t.Parallel()

	mb := fakemsgbroker.New()
	err := msgbroker.PublishMsgEntityExpired(context.Background(), mb, "offer", "o1", time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, mb.TotalPublishedTopic(msgbroker.EntityExpiredTopic))

	err = msgbroker.PublishMsgEntityExpired(context.Background(), mb, "", "o1", time.Now())
	require.Error(t, err)
}
