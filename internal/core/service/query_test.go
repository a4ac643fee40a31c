package service

import (
	"fmt"
	"testing"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func queryFixture() []domain.Product {
	return []domain.Product{
		{
			ID: "sv-ghee-a2", Name: "A2 Desi Ghee", Featured: true, InStock: true,
			Brand:    domain.BrandRef{ID: "satvik-organics", Name: "Satvik Organics"},
			Category: domain.CategoryRef{ID: "ghee-oils", Name: "Ghee & Oils"},
			Tags:     []string{"ghee", "a2", "bilona"},
		},
		{
			ID: "an-turmeric", Name: "Lakadong Turmeric Powder", Featured: true, InStock: true,
			Brand:    domain.BrandRef{ID: "annapurna-spices", Name: "Annapurna Spices"},
			Category: domain.CategoryRef{ID: "spices", Name: "Spices"},
			Tags:     []string{"turmeric", "haldi"},
		},
		{
			ID: "sv-dal-toor", Name: "Toor Dal", InStock: false,
			Brand:    domain.BrandRef{ID: "satvik-organics", Name: "Satvik Organics"},
			Category: domain.CategoryRef{ID: "flours-grains", Name: "Flours & Grains"},
			Tags:     []string{"dal", "protein"},
		},
		{
			ID: "gs-kaju-katli", Name: "Kaju Katli", Featured: true, InStock: false,
			Brand:       domain.BrandRef{ID: "gaon-ka-swad", Name: "Gaon Ka Swad"},
			Category:    domain.CategoryRef{ID: "snacks-sweets", Name: "Snacks & Sweets"},
			Description: "Cashew fudge made with desi ghee",
		},
	}
}

func queryService(t *testing.T, ps []domain.Product) *CatalogService {
	t.Helper()
	local := &stubSource{src: domain.SourceLocal, catalog: domain.Catalog{Products: ps}}
	return New(CatalogServiceConfig{
		Sources:       map[domain.Source]port.CatalogSource{domain.SourceLocal: local},
		DefaultSource: domain.SourceLocal,
	})
}

func pageIDs(p domain.ProductPage) []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterProducts(t *testing.T) {
	ps := queryFixture()

	t.Run("NoPredicatesReturnsAll", func(t *testing.T) {
		out := FilterProducts(ps, domain.ProductQuery{})
		assert.Len(t, out, len(ps))
	})

	t.Run("PredicatesCompose", func(t *testing.T) {
		out := FilterProducts(ps, domain.ProductQuery{
			BrandID: "satvik-organics",
			InStock: boolPtr(true),
		})
		require.Len(t, out, 1)
		assert.Equal(t, "sv-ghee-a2", out[0].ID)
	})

	t.Run("FeaturedAndOutOfStock", func(t *testing.T) {
		out := FilterProducts(ps, domain.ProductQuery{
			Featured: boolPtr(true),
			InStock:  boolPtr(false),
		})
		require.Len(t, out, 1)
		assert.Equal(t, "gs-kaju-katli", out[0].ID)
	})

	t.Run("NoMatchesIsEmptyNotNilError", func(t *testing.T) {
		out := FilterProducts(ps, domain.ProductQuery{BrandID: "no-such-brand"})
		assert.Empty(t, out)
	})

	t.Run("InputIsNotMutated", func(t *testing.T) {
		before := ps[0].ID
		out := FilterProducts(ps, domain.ProductQuery{CategoryID: "spices"})
		require.NotEmpty(t, out)
		out[0].ID = "mutated"
		assert.Equal(t, before, ps[0].ID)
	})
}

func TestSearchProducts(t *testing.T) {
	ps := queryFixture()

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		out := SearchProducts(ps, "TURMERIC")
		require.Len(t, out, 1)
		assert.Equal(t, "an-turmeric", out[0].ID)
	})

	t.Run("MatchesDescriptionTagsBrandCategory", func(t *testing.T) {
		assert.Len(t, SearchProducts(ps, "cashew fudge"), 1)
		assert.Len(t, SearchProducts(ps, "haldi"), 1)
		assert.Len(t, SearchProducts(ps, "annapurna"), 1)
		assert.Len(t, SearchProducts(ps, "snacks"), 1)
	})

	t.Run("SourceOrderPreserved", func(t *testing.T) {
		out := SearchProducts(ps, "ghee")
		ids := make([]string, len(out))
		for i, p := range out {
			ids[i] = p.ID
		}
		assert.Equal(t, []string{"sv-ghee-a2", "gs-kaju-katli"}, ids)
	})

	t.Run("BlankTermMatchesEverything", func(t *testing.T) {
		assert.Len(t, SearchProducts(ps, "   "), len(ps))
	})
}

func TestSortProductsByName(t *testing.T) {
	t.Run("Ascending", func(t *testing.T) {
		ps := queryFixture()
		SortProductsByName(ps, false)
		assert.Equal(t, "A2 Desi Ghee", ps[0].Name)
		assert.Equal(t, "Toor Dal", ps[len(ps)-1].Name)
	})

	t.Run("Descending", func(t *testing.T) {
		ps := queryFixture()
		SortProductsByName(ps, true)
		assert.Equal(t, "Toor Dal", ps[0].Name)
	})

	t.Run("StableOnEqualNames", func(t *testing.T) {
		ps := []domain.Product{
			{ID: "first", Name: "Poha"},
			{ID: "second", Name: "Poha"},
		}
		SortProductsByName(ps, false)
		assert.Equal(t, "first", ps[0].ID)
		assert.Equal(t, "second", ps[1].ID)
	})
}

func TestSortBrands(t *testing.T) {
	bs := []domain.Brand{
		{ID: "b", SortOrder: 2},
		{ID: "c", SortOrder: 0},
		{ID: "a", SortOrder: 1},
		{ID: "d", SortOrder: 0},
	}

	out := SortBrands(bs, false)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "d", out[1].ID, "ties keep insertion order")
	assert.Equal(t, "b", out[3].ID)

	assert.Equal(t, "b", bs[0].ID, "input slice untouched")
}

func TestQueryProducts(t *testing.T) {
	t.Run("FilterSearchSortPipeline", func(t *testing.T) {
		svc := queryService(t, queryFixture())
		page, err := svc.QueryProducts(t.Context(), domain.ProductQuery{
			Featured: boolPtr(true),
			Sort:     domain.SortByName,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"sv-ghee-a2", "gs-kaju-katli", "an-turmeric"}, pageIDs(page))
		assert.Equal(t, 3, page.Total)
		assert.False(t, page.HasMore)
	})

	t.Run("InvalidQueryRejected", func(t *testing.T) {
		svc := queryService(t, queryFixture())
		for _, q := range []domain.ProductQuery{
			{Offset: -1},
			{Limit: -10},
			{Sort: "price"},
			{Sort: domain.SortByName, Order: "sideways"},
		} {
			_, err := svc.QueryProducts(t.Context(), q)
			require.ErrorIs(t, err, domain.ErrInvalidQuery)
		}
	})
}

func TestPagination(t *testing.T) {
	ps := make([]domain.Product, 37)
	for i := range ps {
		ps[i] = domain.Product{ID: fmt.Sprintf("p-%02d", i)}
	}
	svc := queryService(t, ps)

	t.Run("FullMiddlePage", func(t *testing.T) {
		page, err := svc.QueryProducts(t.Context(), domain.ProductQuery{Offset: 20, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, "p-20", page.Items[0].ID)
		assert.Equal(t, 37, page.Total)
		assert.True(t, page.HasMore)
	})

	t.Run("ShortLastPage", func(t *testing.T) {
		page, err := svc.QueryProducts(t.Context(), domain.ProductQuery{Offset: 30, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, 7)
		assert.False(t, page.HasMore)
	})

	t.Run("OffsetPastEnd", func(t *testing.T) {
		page, err := svc.QueryProducts(t.Context(), domain.ProductQuery{Offset: 100, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 37, page.Total)
		assert.False(t, page.HasMore)
	})

	t.Run("ZeroLimitMeansEverything", func(t *testing.T) {
		page, err := svc.QueryProducts(t.Context(), domain.ProductQuery{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 37)
		assert.False(t, page.HasMore)
	})
}
