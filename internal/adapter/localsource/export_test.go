package localsource

import (
	"encoding/json"
	"testing"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c domain.Catalog) domain.Catalog {
	t.Helper()

	b, err := Export(c)
	require.NoError(t, err)

	var raw rawCatalog
	require.NoError(t, json.Unmarshal(b, &raw))

	out, err := transformCatalog(raw)
	require.NoError(t, err)
	return out
}

func TestExportRoundTrip(t *testing.T) {
	t.Run("FixtureSurvivesTheInverse", func(t *testing.T) {
		c, err := transformCatalog(rawFixture())
		require.NoError(t, err)
		assert.Equal(t, c, roundTrip(t, c))
	})

	t.Run("BundledCatalogSurvivesTheInverse", func(t *testing.T) {
		src, err := New()
		require.NoError(t, err)
		c, err := src.FetchCatalog(t.Context())
		require.NoError(t, err)

		assert.Equal(t, c, roundTrip(t, c))
	})

	t.Run("OrphanCategoryLandsUnderTheFirstBrand", func(t *testing.T) {
		c, err := transformCatalog(rawFixture())
		require.NoError(t, err)
		c.Categories = append(c.Categories, domain.Category{
			ID: "gift-hampers", Name: "Gift Hampers", IsActive: true, SortOrder: 9,
		})

		out := roundTrip(t, c)
		require.Len(t, out.Categories, 2)
		assert.Equal(t, "gift-hampers", out.Categories[1].ID)
		assert.Equal(t, c.Products, out.Products)
	})

	t.Run("ExternalImagesKeepTheirURL", func(t *testing.T) {
		raw := rawFixture()
		raw.Brands[0].Categories[0].Products[0].ImageURL = "https://cdn.satvikfoods.in/ghee.jpg"
		raw.Brands[0].Categories[0].Products[0].ImageFile = ""
		c, err := transformCatalog(raw)
		require.NoError(t, err)

		out := roundTrip(t, c)
		assert.Equal(t, "https://cdn.satvikfoods.in/ghee.jpg", out.Products[0].Image.URL)
		assert.Equal(t, domain.ImageOriginExternal, out.Products[0].Image.Origin)
	})
}
