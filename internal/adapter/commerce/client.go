package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 50
	pagesPerSecond  = 10
)

var _ port.CatalogSource = (*Client)(nil)

type Config struct {
	BaseURL  string
	PageSize int
}

// Client consumes the commerce REST API page by page. There is no
// partial-result mode: any page failure fails the whole fetch.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(pagesPerSecond), 1),
	}
}

func (c *Client) Source() domain.Source {
	return domain.SourceBackend
}

func (c *Client) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	const op = "commerce.Client.FetchCatalog"

	raw, err := c.fetchAllPages(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	catalog, err := transformCatalog(raw)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return catalog, nil
}

func (c *Client) fetchAllPages(ctx context.Context) ([]rawProduct, error) {
	const op = "fetchAllPages"

	var all []rawProduct
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		pg, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", op, page, err)
		}

		all = append(all, pg.Data...)

		if page >= pg.TotalPages || len(pg.Data) == 0 {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, page int) (pageResponse, error) {
	const op = "fetchPage"

	reqURL := fmt.Sprintf(
		"%s/products?page=%d&size=%d", c.cfg.BaseURL, page, c.cfg.PageSize,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return pageResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return pageResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return pageResponse{}, fmt.Errorf(
			"%s: unexpected status %d", op, res.StatusCode,
		)
	}

	var pg pageResponse
	if err := json.NewDecoder(res.Body).Decode(&pg); err != nil {
		return pageResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	return pg, nil
}
