package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	src     domain.Source
	catalog domain.Catalog
	err     error
	calls   int
}

func (s *stubSource) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	s.calls++
	if s.err != nil {
		return domain.Catalog{}, s.err
	}
	return s.catalog, nil
}

func (s *stubSource) Source() domain.Source { return s.src }

type stubPrefs struct {
	src   domain.Source
	ok    bool
	saved []domain.Source
}

func (s *stubPrefs) SourcePreference() (domain.Source, bool) { return s.src, s.ok }

func (s *stubPrefs) SaveSourcePreference(src domain.Source) error {
	s.saved = append(s.saved, src)
	return nil
}

type stubBroadcaster struct {
	events []domain.SyncEvent
	err    error
}

func (s *stubBroadcaster) BroadcastSync(_ context.Context, ev domain.SyncEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testCatalog(names ...string) domain.Catalog {
	var c domain.Catalog
	for _, n := range names {
		c.Products = append(c.Products, domain.Product{ID: n, Name: n})
	}
	return c
}

func TestCatalogCaching(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	local := &stubSource{src: domain.SourceLocal, catalog: testCatalog("ghee", "atta")}

	svc := New(CatalogServiceConfig{
		Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
		DefaultSource: domain.SourceLocal,
		TTL:           5 * time.Minute,
		Now:           clock.Now,
	})

	t.Run("RepeatedReadsHitTheCache", func(t *testing.T) {
		for range 3 {
			c, err := svc.Catalog(t.Context())
			require.NoError(t, err)
			assert.Len(t, c.Products, 2)
		}
		assert.Equal(t, 1, local.calls)
	})

	t.Run("ExpiredTTLRefetches", func(t *testing.T) {
		clock.Advance(5 * time.Minute)
		_, err := svc.Catalog(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, local.calls)
	})

	t.Run("ClearCacheForcesRefetch", func(t *testing.T) {
		svc.ClearCache()
		_, err := svc.Catalog(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 3, local.calls)
	})

	t.Run("MetadataReflectsSnapshot", func(t *testing.T) {
		c, err := svc.Catalog(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, c.Metadata.TotalProducts)
		assert.Equal(t, domain.SourceLocal, c.Metadata.DataSource)
		assert.Equal(t, clock.Now(), c.Metadata.LastUpdated)
	})
}

func TestCatalogFallbackToLocal(t *testing.T) {
	local := &stubSource{src: domain.SourceLocal, catalog: testCatalog("ghee")}
	backend := &stubSource{src: domain.SourceBackend, err: errors.New("connection refused")}

	svc := New(CatalogServiceConfig{
		Sources: map[domain.Source]port.CatalogSource{
			domain.SourceLocal:   local,
			domain.SourceBackend: backend,
		},
		DefaultSource:   domain.SourceBackend,
		FallbackToLocal: true,
	})

	c, err := svc.Catalog(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, domain.SourceLocal, c.Metadata.DataSource)
}

func TestCatalogFailedRefresh(t *testing.T) {
	backend := &stubSource{src: domain.SourceBackend, catalog: testCatalog("ghee")}
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	svc := New(CatalogServiceConfig{
		Sources:       map[domain.Source]port.CatalogSource{domain.SourceBackend: backend},
		DefaultSource: domain.SourceBackend,
		Now:           clock.Now,
	})

	_, err := svc.Catalog(t.Context())
	require.NoError(t, err)

	backend.err = errors.New("gateway timeout")
	clock.Advance(DefaultTTL)

	_, err = svc.Catalog(t.Context())
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)

	t.Run("LastKnownGoodSurvives", func(t *testing.T) {
		svc.mu.RLock()
		defer svc.mu.RUnlock()
		require.NotNil(t, svc.snapshot)
		assert.Len(t, svc.snapshot.Products, 1)
	})

	t.Run("RecoversOnceSourceIsBack", func(t *testing.T) {
		backend.err = nil
		c, err := svc.Catalog(t.Context())
		require.NoError(t, err)
		assert.Equal(t, domain.SourceBackend, c.Metadata.DataSource)
	})
}

func TestSetSourceOverride(t *testing.T) {
	local := &stubSource{src: domain.SourceLocal, catalog: testCatalog("ghee")}
	sanity := &stubSource{src: domain.SourceSanity, catalog: testCatalog("ghee", "atta", "besan")}
	prefs := &stubPrefs{}

	svc := New(CatalogServiceConfig{
		Sources: map[domain.Source]port.CatalogSource{
			domain.SourceLocal:  local,
			domain.SourceSanity: sanity,
		},
		Prefs:         prefs,
		DefaultSource: domain.SourceLocal,
	})

	_, err := svc.Catalog(t.Context())
	require.NoError(t, err)

	t.Run("SwitchDropsCacheAndPersists", func(t *testing.T) {
		require.NoError(t, svc.SetSourceOverride(domain.SourceSanity))
		assert.Equal(t, domain.SourceSanity, svc.ActiveSource())
		assert.Equal(t, []domain.Source{domain.SourceSanity}, prefs.saved)

		c, err := svc.Catalog(t.Context())
		require.NoError(t, err)
		assert.Equal(t, domain.SourceSanity, c.Metadata.DataSource)
		assert.Len(t, c.Products, 3)
	})

	t.Run("UnknownSourceRejected", func(t *testing.T) {
		err := svc.SetSourceOverride("shopify")
		require.ErrorIs(t, err, domain.ErrUnknownSource)
	})

	t.Run("ValidButUnwiredSourceRejected", func(t *testing.T) {
		err := svc.SetSourceOverride(domain.SourceBackend)
		require.ErrorIs(t, err, domain.ErrUnknownSource)
	})
}

func TestActiveSourcePriority(t *testing.T) {
	sources := map[domain.Source]port.CatalogSource{
		domain.SourceLocal:  &stubSource{src: domain.SourceLocal},
		domain.SourceSanity: &stubSource{src: domain.SourceSanity},
	}

	t.Run("DefaultWhenNothingElse", func(t *testing.T) {
		svc := New(CatalogServiceConfig{
			Sources: sources, DefaultSource: domain.SourceLocal,
		})
		assert.Equal(t, domain.SourceLocal, svc.ActiveSource())
	})

	t.Run("PreferenceBeatsDefault", func(t *testing.T) {
		svc := New(CatalogServiceConfig{
			Sources:       sources,
			Prefs:         &stubPrefs{src: domain.SourceSanity, ok: true},
			DefaultSource: domain.SourceLocal,
		})
		assert.Equal(t, domain.SourceSanity, svc.ActiveSource())
	})

	t.Run("OverrideBeatsPreference", func(t *testing.T) {
		svc := New(CatalogServiceConfig{
			Sources:       sources,
			Prefs:         &stubPrefs{src: domain.SourceSanity, ok: true},
			DefaultSource: domain.SourceLocal,
		})
		require.NoError(t, svc.SetSourceOverride(domain.SourceLocal))
		assert.Equal(t, domain.SourceLocal, svc.ActiveSource())
	})

	t.Run("UnwiredPreferenceIgnored", func(t *testing.T) {
		svc := New(CatalogServiceConfig{
			Sources:       sources,
			Prefs:         &stubPrefs{src: domain.SourceBackend, ok: true},
			DefaultSource: domain.SourceLocal,
		})
		assert.Equal(t, domain.SourceLocal, svc.ActiveSource())
	})
}

func TestResyncCatalog(t *testing.T) {
	local := &stubSource{src: domain.SourceLocal, catalog: testCatalog("ghee")}
	bc := &stubBroadcaster{}

	svc := New(CatalogServiceConfig{
		Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
		Broadcaster:   bc,
		DefaultSource: domain.SourceLocal,
		Instance:      "node-a",
	})

	t.Run("RefetchesAndBroadcasts", func(t *testing.T) {
		require.NoError(t, svc.ResyncCatalog(t.Context(), "cms publish"))
		assert.Equal(t, 1, local.calls)
		require.Len(t, bc.events, 1)
		assert.Equal(t, "node-a", bc.events[0].Origin)
		assert.Equal(t, "cms publish", bc.events[0].Reason)
	})

	t.Run("BroadcastFailureIsNotFatal", func(t *testing.T) {
		bc.err = errors.New("broker unavailable")
		require.NoError(t, svc.ResyncCatalog(t.Context(), "retry"))
	})

	t.Run("RefreshFailureIsFatal", func(t *testing.T) {
		local.err = errors.New("corrupt data")
		err := svc.ResyncCatalog(t.Context(), "again")
		require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}

func TestApplySyncEvent(t *testing.T) {
	local := &stubSource{src: domain.SourceLocal, catalog: testCatalog("ghee")}

	svc := New(CatalogServiceConfig{
		Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
		DefaultSource: domain.SourceLocal,
		Instance:      "node-a",
	})

	t.Run("OwnOriginSkipped", func(t *testing.T) {
		ev := domain.SyncEvent{Origin: "node-a", Reason: "self"}
		require.NoError(t, svc.ApplySyncEvent(t.Context(), ev))
		assert.Zero(t, local.calls)
	})

	t.Run("PeerOriginRefetches", func(t *testing.T) {
		ev := domain.SyncEvent{Origin: "node-b", Reason: "cms publish"}
		require.NoError(t, svc.ApplySyncEvent(t.Context(), ev))
		assert.Equal(t, 1, local.calls)
	})
}

func TestNewPanics(t *testing.T) {
	local := &stubSource{src: domain.SourceLocal}

	t.Run("NoSources", func(t *testing.T) {
		assert.Panics(t, func() { New(CatalogServiceConfig{DefaultSource: domain.SourceLocal}) })
	})

	t.Run("InvalidDefault", func(t *testing.T) {
		assert.Panics(t, func() {
			New(CatalogServiceConfig{
				Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
				DefaultSource: "shopify",
			})
		})
	})

	t.Run("UnwiredDefault", func(t *testing.T) {
		assert.Panics(t, func() {
			New(CatalogServiceConfig{
				Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
				DefaultSource: domain.SourceSanity,
			})
		})
	})
}
