package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
)

const defaultTimeout = 30 * time.Second

// catalogQuery fetches products with brand/category references resolved
// inline, plus the brand and category documents, in one round trip.
const catalogQuery = `{
"products": *[_type == "product"]{
	_id, name, description, price, inStock, featured,
	"imageUrl": image.asset->url, "imageAlt": image.alt, "imageFile": image.file,
	"gallery": gallery[]{"url": asset->url, alt, file},
	tags, variants,
	brand->{_id, name},
	category->{_id, name}
},
"brands": *[_type == "brand"]{_id, name, description, isActive, sortOrder},
"categories": *[_type == "category"]{_id, name, description, isActive, sortOrder}
}`

var _ port.CatalogSource = (*Client)(nil)

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
}

// Client queries the Sanity content API. Read-only, no mutations.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) Source() domain.Source {
	return domain.SourceSanity
}

func (c *Client) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	const op = "sanity.Client.FetchCatalog"

	raw, err := c.query(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	catalog, err := transformCatalog(raw)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return catalog, nil
}

func (c *Client) query(ctx context.Context) (rawResult, error) {
	const op = "query"

	reqURL := c.queryURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return rawResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return rawResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return rawResult{}, fmt.Errorf(
			"%s: unexpected status %d", op, res.StatusCode,
		)
	}

	var qr queryResponse
	if err := json.NewDecoder(res.Body).Decode(&qr); err != nil {
		return rawResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return qr.Result, nil
}

func (c *Client) queryURL() string {
	return fmt.Sprintf(
		"https://%s.api.sanity.io/v%s/data/query/%s?query=%s",
		c.cfg.ProjectID,
		c.cfg.APIVersion,
		c.cfg.Dataset,
		url.QueryEscape(catalogQuery),
	)
}
