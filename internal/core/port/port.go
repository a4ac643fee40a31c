package port

import (
	"context"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

// CatalogSource fetches raw records from exactly one backing source and
// returns them normalized. Implementations must not cache and must not
// retry on their own.
type CatalogSource interface {
	FetchCatalog(context.Context) (domain.Catalog, error)
	Source() domain.Source
}

type CatalogProvider interface {
	Catalog(context.Context) (domain.Catalog, error)
	Products(context.Context) ([]domain.Product, error)
	Brands(context.Context) ([]domain.Brand, error)
	Categories(context.Context) ([]domain.Category, error)
}

type ProductsQuerier interface {
	QueryProducts(context.Context, domain.ProductQuery) (domain.ProductPage, error)
}

type CacheCleaner interface {
	ClearCache()
}

type SourceSwitcher interface {
	SetSourceOverride(domain.Source) error
	ActiveSource() domain.Source
}

type CatalogResyncer interface {
	ResyncCatalog(context.Context, string) error
}

type SyncApplier interface {
	ApplySyncEvent(context.Context, domain.SyncEvent) error
}

// SyncBroadcaster publishes a resync announcement to peer instances.
type SyncBroadcaster interface {
	BroadcastSync(context.Context, domain.SyncEvent) error
}

// SourcePrefs persists the operator's source preference between runs.
type SourcePrefs interface {
	SourcePreference() (domain.Source, bool)
	SaveSourcePreference(domain.Source) error
}
