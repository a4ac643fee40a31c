package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
)

const DefaultTTL = 5 * time.Minute

var _ port.CatalogProvider = (*CatalogService)(nil)
var _ port.ProductsQuerier = (*CatalogService)(nil)
var _ port.CacheCleaner = (*CatalogService)(nil)
var _ port.SourceSwitcher = (*CatalogService)(nil)
var _ port.CatalogResyncer = (*CatalogService)(nil)
var _ port.SyncApplier = (*CatalogService)(nil)

type CatalogServiceConfig struct {
	Sources         map[domain.Source]port.CatalogSource
	Prefs           port.SourcePrefs
	Broadcaster     port.SyncBroadcaster
	DefaultSource   domain.Source
	Instance        string
	TTL             time.Duration
	FallbackToLocal bool
	Now             func() time.Time
}

// CatalogService owns the single normalized snapshot of the catalog.
// The snapshot is an immutable value object; a refresh replaces it wholesale,
// last writer wins.
type CatalogService struct {
	sources         map[domain.Source]port.CatalogSource
	prefs           port.SourcePrefs
	broadcaster     port.SyncBroadcaster
	defaultSource   domain.Source
	instance        string
	ttl             time.Duration
	fallbackToLocal bool
	now             func() time.Time

	mu        sync.RWMutex
	override  domain.Source
	snapshot  *domain.Catalog
	fetchedAt time.Time
}

func New(cfg CatalogServiceConfig) *CatalogService {
	const op = "service.New"

	if len(cfg.Sources) == 0 {
		panic(fmt.Errorf("%s: no catalog sources", op)) // develop mistake
	}
	if !cfg.DefaultSource.IsValid() {
		panic(fmt.Errorf("%s: %w: %q", op, domain.ErrUnknownSource, cfg.DefaultSource)) // develop mistake
	}
	if _, ok := cfg.Sources[cfg.DefaultSource]; !ok {
		panic(fmt.Errorf("%s: default source %q is not wired", op, cfg.DefaultSource)) // develop mistake
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CatalogService{
		sources:         cfg.Sources,
		prefs:           cfg.Prefs,
		broadcaster:     cfg.Broadcaster,
		defaultSource:   cfg.DefaultSource,
		instance:        cfg.Instance,
		ttl:             cfg.TTL,
		fallbackToLocal: cfg.FallbackToLocal,
		now:             cfg.Now,
	}
}

// Catalog returns the cached snapshot while it is younger than the TTL,
// otherwise refetches from the active source. A failed refresh keeps the
// last-known-good snapshot in place and surfaces the error.
func (s *CatalogService) Catalog(ctx context.Context) (domain.Catalog, error) {
	const op = "CatalogService.Catalog"

	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	if c, ok := s.cached(); ok {
		return c, nil
	}

	c, err := s.refresh(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogService.Products"

	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.Products, nil
}

func (s *CatalogService) Brands(ctx context.Context) ([]domain.Brand, error) {
	const op = "CatalogService.Brands"

	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.Brands, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogService.Categories"

	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.Categories, nil
}

// ClearCache drops the snapshot so the next access refetches.
func (s *CatalogService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.fetchedAt = time.Time{}
}

// SetSourceOverride switches the active source for this process and persists
// the choice as the operator preference. The cache is dropped so the next
// access hits the new source.
func (s *CatalogService) SetSourceOverride(src domain.Source) error {
	const op = "CatalogService.SetSourceOverride"

	if !src.IsValid() {
		return fmt.Errorf("%s: %w: %q", op, domain.ErrUnknownSource, src)
	}
	if _, ok := s.sources[src]; !ok {
		return fmt.Errorf("%s: %w: %q is not wired", op, domain.ErrUnknownSource, src)
	}

	s.mu.Lock()
	s.override = src
	s.snapshot = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SaveSourcePreference(src); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ActiveSource resolves the source in priority order:
// runtime override, persisted preference, configured default.
func (s *CatalogService) ActiveSource() domain.Source {
	s.mu.RLock()
	override := s.override
	s.mu.RUnlock()

	if override != "" {
		return override
	}

	if s.prefs != nil {
		if src, ok := s.prefs.SourcePreference(); ok && src.IsValid() {
			if _, wired := s.sources[src]; wired {
				return src
			}
		}
	}

	return s.defaultSource
}

// ResyncCatalog drops the cache, warms a fresh snapshot and announces the
// resync to peer instances. A broadcast failure is logged, not surfaced:
// the local resync already succeeded.
func (s *CatalogService) ResyncCatalog(ctx context.Context, reason string) error {
	const op = "CatalogService.ResyncCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.ClearCache()
	if _, err := s.refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.broadcaster == nil {
		return nil
	}

	ev := domain.SyncEvent{
		Origin:      s.instance,
		Reason:      reason,
		RequestedAt: s.now(),
	}
	if err := s.broadcaster.BroadcastSync(ctx, ev); err != nil {
		log.Warn("failed to broadcast sync event", "err", err)
	}
	return nil
}

// ApplySyncEvent handles a peer's resync announcement. Events originated by
// this instance are skipped, it already refetched before broadcasting.
func (s *CatalogService) ApplySyncEvent(ctx context.Context, ev domain.SyncEvent) error {
	const op = "CatalogService.ApplySyncEvent"
	log := slog.With("op", op)

	if ev.Origin != "" && ev.Origin == s.instance {
		return nil
	}

	log.Info("applying catalog sync", "origin", ev.Origin, "reason", ev.Reason)

	s.ClearCache()
	if _, err := s.refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *CatalogService) cached() (domain.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return domain.Catalog{}, false
	}
	if s.now().Sub(s.fetchedAt) >= s.ttl {
		return domain.Catalog{}, false
	}
	return *s.snapshot, true
}

// refresh fetches from the active source; on failure it retries once against
// the local source when the fallback policy allows, otherwise the error
// surfaces as a source-unavailable condition.
func (s *CatalogService) refresh(ctx context.Context) (domain.Catalog, error) {
	const op = "CatalogService.refresh"
	log := slog.With("op", op)

	src := s.ActiveSource()
	adapter := s.sources[src]

	c, err := adapter.FetchCatalog(ctx)
	if err == nil {
		return s.store(c, src), nil
	}

	if s.fallbackToLocal && src != domain.SourceLocal {
		if local, ok := s.sources[domain.SourceLocal]; ok {
			log.Warn("falling back to local catalog", "source", src, "err", err)
			lc, lerr := local.FetchCatalog(ctx)
			if lerr == nil {
				return s.store(lc, domain.SourceLocal), nil
			}
			log.Error("local fallback failed", "err", lerr)
		}
	}

	return domain.Catalog{}, fmt.Errorf(
		"%s: source %q: %w: %w", op, src, domain.ErrSourceUnavailable, err,
	)
}

func (s *CatalogService) store(c domain.Catalog, src domain.Source) domain.Catalog {
	fetchedAt := s.now()
	c.Metadata = domain.Metadata{
		TotalProducts:   len(c.Products),
		TotalBrands:     len(c.Brands),
		TotalCategories: len(c.Categories),
		LastUpdated:     fetchedAt,
		DataSource:      src,
	}

	s.mu.Lock()
	s.snapshot = &c
	s.fetchedAt = fetchedAt
	s.mu.Unlock()

	return c
}
