package ironic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"github.com/stretchr/testify/require"
)

func newIronic(t *testing.T) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-OpenStack-Ironic-API-Version") != apiVersion || r.Header.Get("X-Auth-Token") != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/v1/nodes/node-1":
			_, _ = fmt.Fprint(w, `{"uuid": "node-1", "owner": "1234"}`)
		case "/v1/nodes/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "secret")
	require.NoError(t, err)
	return c
}

func TestIsResourceAdmin(t *testing.T) {
	t.Parallel()
	c := newIronic(t)
	ctx := context.Background()

	ok, err := c.IsResourceAdmin(ctx, market.IronicNode, "node-1", auth.Project("1234"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.IsResourceAdmin(ctx, market.IronicNode, "node-1", auth.Project("7788"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.IsResourceAdmin(ctx, market.IronicNode, "missing", auth.Project("1234"))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.IsResourceAdmin(ctx, market.IronicNode, "broken", auth.Project("1234"))
	require.Error(t, err)

	ok, err = c.IsResourceAdmin(ctx, market.IronicNode, "anything", auth.Admin())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New("localhost:6385", "")
	require.Error(t, err)
}
