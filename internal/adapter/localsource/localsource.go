package localsource

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
)

//go:embed catalog.json
var catalogJSON []byte

var _ port.CatalogSource = (*LocalSource)(nil)

// LocalSource serves the catalog bundled into the binary. Fetching cannot
// fail at runtime; a malformed bundle fails construction.
type LocalSource struct {
	catalog domain.Catalog
}

func New() (*LocalSource, error) {
	const op = "localsource.New"

	var raw rawCatalog
	if err := json.Unmarshal(catalogJSON, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := transformCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &LocalSource{catalog: c}, nil
}

func (s *LocalSource) Source() domain.Source {
	return domain.SourceLocal
}

func (s *LocalSource) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	const op = "LocalSource.FetchCatalog"

	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.catalog, nil
}
