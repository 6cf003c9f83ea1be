package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flocx/flocx-market/auth"
	mm "github.com/flocx/flocx-market/cmd/marketd/market"
	"github.com/flocx/flocx-market/cmd/marketd/memstore"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/msgbroker/fakemsgbroker"
	"github.com/flocx/flocx-market/resource"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	srv    *httptest.Server
	tokens *auth.Tokens
}

func newClient(t *testing.T) client {
	store := memstore.New()
	oracle := resource.NewRegistry()
	oracle.Register(market.IronicNode, resource.NewStatic(map[string][]string{"p2": {"node-1", "node-2"}}))
	m, err := mm.New(mm.Deps{
		Bids:          store.Bids(),
		Offers:        store.Offers(),
		Contracts:     store.Contracts(),
		Relationships: store.Relationships(),
		Oracle:        oracle,
		MsgBroker:     fakemsgbroker.New(),
	})
	require.NoError(t, err)
	tokens, err := auth.NewTokens("test-secret")
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(m, tokens))
	t.Cleanup(srv.Close)
	return client{t: t, srv: srv, tokens: tokens}
}

// do sends body as JSON on behalf of s, decodes the response into out and
// returns the status code.
func (c client) do(s *auth.Scope, method, path string, body, out interface{}) int {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	if s != nil {
		tok, err := c.tokens.Issue(*s, time.Minute)
		require.NoError(c.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { require.NoError(c.t, res.Body.Close()) }()
	if out != nil && res.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func bidBody(creatorBidID string) map[string]interface{} {
	now := time.Now().UTC()
	return map[string]interface{}{
		"creator_bid_id": creatorBidID,
		"creator_id":     "user-1",
		"quantity":       1,
		"start_time":     now.Add(-time.Minute),
		"end_time":       now.Add(time.Hour),
		"duration":       3600,
		"config_query":   map[string]interface{}{"memory_mb": 2048},
		"cost":           "9.5",
	}
}

func offerBody(resourceID string) map[string]interface{} {
	now := time.Now().UTC()
	return map[string]interface{}{
		"provider_id":   "provider-1",
		"resource_id":   resourceID,
		"resource_type": "ironic_node",
		"start_time":    now.Add(-time.Minute),
		"end_time":      now.Add(time.Hour),
		"config":        map[string]interface{}{"cpus": 4},
		"cost":          4,
	}
}

var (
	admin = auth.Admin()
	p1    = auth.Project("p1")
	p2    = auth.Project("p2")
)

func TestHealth(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	require.Equal(t, http.StatusOK, c.do(nil, http.MethodGet, "/health", nil, nil))
}

func TestAuthentication(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	require.Equal(t, http.StatusUnauthorized, c.do(nil, http.MethodGet, "/bid", nil, nil))

	req, err := http.NewRequest(http.MethodGet, c.srv.URL+"/bid", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestBidEndpoints(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	var b market.Bid
	require.Equal(t, http.StatusCreated, c.do(&p1, http.MethodPost, "/bid", bidBody("c-1"), &b))
	require.NotEmpty(t, b.BidID)
	require.Equal(t, "p1", b.ProjectID)
	require.Equal(t, market.StatusAvailable, b.Status)

	var got market.Bid
	require.Equal(t, http.StatusOK, c.do(&p1, http.MethodGet, "/bid/"+b.BidID, nil, &got))
	require.Equal(t, b.BidID, got.BidID)
	require.Equal(t, http.StatusForbidden, c.do(&p2, http.MethodGet, "/bid/"+b.BidID, nil, nil))
	require.Equal(t, http.StatusNotFound, c.do(&p2, http.MethodGet, "/bid/missing", nil, nil))

	var own []market.Bid
	require.Equal(t, http.StatusOK, c.do(&p2, http.MethodGet, "/bid", nil, &own))
	require.Empty(t, own)
	require.Equal(t, http.StatusOK, c.do(&admin, http.MethodGet, "/bid?unexpired=true", nil, &own))
	require.Len(t, own, 1)
	require.Equal(t, http.StatusBadRequest, c.do(&admin, http.MethodGet, "/bid?unexpired=maybe", nil, nil))

	var updated market.Bid
	require.Equal(t, http.StatusOK,
		c.do(&p1, http.MethodPut, "/bid/"+b.BidID, map[string]interface{}{"quantity": 3}, &updated))
	require.Equal(t, 3, updated.Quantity)
	require.Equal(t, http.StatusBadRequest,
		c.do(&p1, http.MethodPut, "/bid/"+b.BidID, map[string]interface{}{"status": "bogus"}, nil))
	require.Equal(t, http.StatusForbidden,
		c.do(&p2, http.MethodPut, "/bid/"+b.BidID, map[string]interface{}{"quantity": 4}, nil))

	noCost := bidBody("c-2")
	delete(noCost, "cost")
	require.Equal(t, http.StatusBadRequest, c.do(&p1, http.MethodPost, "/bid", noCost, nil))

	require.Equal(t, http.StatusNoContent, c.do(&p1, http.MethodDelete, "/bid/"+b.BidID, nil, nil))
	require.Equal(t, http.StatusNotFound, c.do(&p1, http.MethodGet, "/bid/"+b.BidID, nil, nil))
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	tok, err := c.tokens.Issue(p1, time.Minute)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+"/bid", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOfferEndpoints(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	require.Equal(t, http.StatusForbidden, c.do(&p1, http.MethodPost, "/offer", offerBody("node-1"), nil))

	var o market.Offer
	require.Equal(t, http.StatusCreated, c.do(&p2, http.MethodPost, "/offer", offerBody("node-1"), &o))
	require.Equal(t, "p2", o.ProjectID)
	require.Equal(t, http.StatusBadRequest, c.do(&p2, http.MethodPost, "/offer", offerBody("node-1"), nil))

	var byResource []market.Offer
	require.Equal(t, http.StatusOK,
		c.do(&p2, http.MethodGet, "/offer?resource_id=node-1&status=available", nil, &byResource))
	require.Len(t, byResource, 1)
	require.Equal(t, http.StatusBadRequest,
		c.do(&p2, http.MethodGet, "/offer?resource_id=node-1&status=bogus", nil, nil))

	require.Equal(t, http.StatusOK,
		c.do(&p2, http.MethodGet, "/offer?resource_id=node-1&unexpired=true", nil, &byResource))
	require.Len(t, byResource, 1)
	require.Equal(t, http.StatusOK,
		c.do(&p2, http.MethodPut, "/offer/"+o.OfferID, map[string]string{"status": "cancelled"}, nil))
	require.Equal(t, http.StatusOK,
		c.do(&p2, http.MethodGet, "/offer?resource_id=node-1&unexpired=true", nil, &byResource))
	require.Empty(t, byResource)
	require.Equal(t, http.StatusOK,
		c.do(&p2, http.MethodGet, "/offer?resource_id=node-1", nil, &byResource))
	require.Len(t, byResource, 1)
}

func TestContractEndpoints(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	var b market.Bid
	require.Equal(t, http.StatusCreated, c.do(&p1, http.MethodPost, "/bid", bidBody("c-1"), &b))
	var offerIDs []string
	for _, r := range []string{"node-1", "node-2"} {
		var o market.Offer
		require.Equal(t, http.StatusCreated, c.do(&p2, http.MethodPost, "/offer", offerBody(r), &o))
		offerIDs = append(offerIDs, o.OfferID)
	}

	now := time.Now().UTC()
	body := map[string]interface{}{
		"start_time": now,
		"end_time":   now.Add(time.Hour),
		"cost":       "19",
		"bid_id":     b.BidID,
		"offers":     offerIDs,
	}
	require.Equal(t, http.StatusForbidden, c.do(&p1, http.MethodPost, "/contract", body, nil))

	var ct market.Contract
	require.Equal(t, http.StatusCreated, c.do(&admin, http.MethodPost, "/contract", body, &ct))
	require.Equal(t, "p1", ct.ProjectID)

	var got market.Contract
	require.Equal(t, http.StatusOK, c.do(&p1, http.MethodGet, "/contract/"+ct.ContractID, nil, &got))
	require.Equal(t, http.StatusForbidden, c.do(&p2, http.MethodGet, "/contract/"+ct.ContractID, nil, nil))

	var rels []market.OfferContractRelationship
	path := fmt.Sprintf("/offer_contract_relationship?contract_id=%s", ct.ContractID)
	require.Equal(t, http.StatusOK, c.do(&p2, http.MethodGet, path, nil, &rels))
	require.Len(t, rels, 2)

	require.Equal(t, http.StatusMethodNotAllowed,
		c.do(&admin, http.MethodPost, "/offer_contract_relationship", map[string]string{}, nil))
	require.Equal(t, http.StatusForbidden, c.do(&p2, http.MethodPut,
		"/offer_contract_relationship/"+rels[0].OfferContractRelationshipID,
		map[string]string{"status": "fulfilled"}, nil))
	var rel market.OfferContractRelationship
	require.Equal(t, http.StatusOK, c.do(&admin, http.MethodPut,
		"/offer_contract_relationship/"+rels[0].OfferContractRelationshipID,
		map[string]string{"status": "fulfilled"}, &rel))
	require.Equal(t, market.StatusFulfilled, rel.Status)

	require.Equal(t, http.StatusNoContent, c.do(&admin, http.MethodDelete, "/contract/"+ct.ContractID, nil, nil))
	require.Equal(t, http.StatusOK, c.do(&p2, http.MethodGet, path, nil, &rels))
	require.Empty(t, rels)
}
