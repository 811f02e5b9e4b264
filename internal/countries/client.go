// Package countries reads the REST Countries feed that the client UI uses to
// suggest a random destination.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pkordes/trip-explorer/internal/domain"
)

// allPath selects only the fields the app renders; the full payload is
// several megabytes.
const allPath = "/v3.1/all?fields=name,capital,region,flags"

// cacheKey is the single entry the cache holds: the decoded full list.
const cacheKey = "all"

// noCapital is shown for territories the feed lists without a capital.
const noCapital = "N/A"

// feedCountry mirrors one element of the feed response.
type feedCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital []string `json:"capital"`
	Region  string   `json:"region"`
	Flags   struct {
		PNG string `json:"png"`
	} `json:"flags"`
}

// Client fetches the country list and caches it for a fixed TTL.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *expirable.LRU[string, []domain.Country]
}

// NewClient returns a Client for the feed at baseURL (e.g.
// "https://restcountries.com") that reuses a fetched list for ttl.
func NewClient(baseURL string, ttl time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		cache:      expirable.NewLRU[string, []domain.Country](1, nil, ttl),
	}
}

// All returns every country in the feed.
// Failures to reach or decode the feed are reported as domain.ErrUpstream.
func (c *Client) All(ctx context.Context) ([]domain.Country, error) {
	if list, ok := c.cache.Get(cacheKey); ok {
		return list, nil
	}

	list, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("countries.Client.All: %w", err)
	}
	c.cache.Add(cacheKey, list)
	return list, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+allPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status=%d, body=%s", domain.ErrUpstream, resp.StatusCode, body)
	}

	var feed []feedCountry
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrUpstream, err)
	}

	list := make([]domain.Country, 0, len(feed))
	for _, f := range feed {
		if f.Name.Common == "" {
			continue
		}
		list = append(list, toDomain(f))
	}
	return list, nil
}

func toDomain(f feedCountry) domain.Country {
	capital := noCapital
	if len(f.Capital) > 0 && f.Capital[0] != "" {
		capital = f.Capital[0]
	}
	return domain.Country{
		Name:    f.Name.Common,
		Capital: capital,
		Region:  f.Region,
		Flag:    f.Flags.PNG,
	}
}
