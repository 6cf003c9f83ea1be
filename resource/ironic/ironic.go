package ironic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/resource"
	logging "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// apiVersion is the first Ironic microversion exposing node owners.
const apiVersion = "1.50"

var log = logging.Logger("resource/ironic")

// Client asks an Ironic API who owns a bare-metal node.
type Client struct {
	baseURL *url.URL
	token   string
	hc      *http.Client
}

var _ resource.Oracle = (*Client)(nil)

// New returns a Client for the Ironic endpoint at baseURL. token, when not empty,
// is sent as the Keystone auth token.
func New(baseURL, token string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ironic url: %s", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ironic url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: u,
		token:   token,
		hc: &http.Client{
			Timeout:   time.Second * 10,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type node struct {
	UUID  string `json:"uuid"`
	Owner string `json:"owner"`
}

// IsResourceAdmin implements resource.Oracle. The project administers the node
// when it's the node owner. Unknown nodes are administered by nobody.
func (c *Client) IsResourceAdmin(ctx context.Context, _ market.ResourceType, resourceID string, s auth.Scope) (bool, error) {
	if s.IsAdmin {
		return true, nil
	}
	if resourceID == "" {
		return false, nil
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/v1/nodes/" + url.PathEscape(resourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %s", err)
	}
	req.Header.Set("X-OpenStack-Ironic-API-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return false, fmt.Errorf("getting node %s: %s", resourceID, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Errorf("closing response body: %s", err)
		}
	}()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		log.Debugf("node %s not found", resourceID)
		return false, nil
	default:
		return false, fmt.Errorf("getting node %s: unexpected status %d", resourceID, res.StatusCode)
	}

	var n node
	if err := json.NewDecoder(res.Body).Decode(&n); err != nil {
		return false, fmt.Errorf("decoding node %s: %s", resourceID, err)
	}
	return n.Owner != "" && n.Owner == s.ProjectID, nil
}
