package localsource

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

// Export re-nests a unified snapshot into the bundled document shape and
// renders it as indented JSON, for regenerating catalog.json from another
// source. Only fields present in both shapes survive; a category that no
// product references is attached to the first brand.
func Export(c domain.Catalog) ([]byte, error) {
	const op = "localsource.Export"

	b, err := json.MarshalIndent(exportCatalog(c), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

type brandGroup struct {
	categoryIDs []string
	products    map[string][]domain.Product
}

func exportCatalog(c domain.Catalog) rawCatalog {
	categories := make(map[string]domain.Category, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat.ID] = cat
	}

	groups := make(map[string]*brandGroup, len(c.Brands))
	for _, b := range c.Brands {
		groups[b.ID] = &brandGroup{products: make(map[string][]domain.Product)}
	}

	referenced := make(map[string]bool)
	for _, p := range c.Products {
		g, ok := groups[p.Brand.ID]
		if !ok {
			// A product without a known brand has no home in the nested shape.
			continue
		}
		if _, seen := g.products[p.Category.ID]; !seen {
			g.categoryIDs = append(g.categoryIDs, p.Category.ID)
		}
		g.products[p.Category.ID] = append(g.products[p.Category.ID], p)
		referenced[p.Category.ID] = true

		if _, known := categories[p.Category.ID]; !known {
			categories[p.Category.ID] = domain.Category{
				ID:       p.Category.ID,
				Name:     p.Category.Name,
				IsActive: true,
			}
		}
	}

	var out rawCatalog
	for i, b := range c.Brands {
		g := groups[b.ID]

		categoryIDs := g.categoryIDs
		if i == 0 {
			for _, cat := range c.Categories {
				if !referenced[cat.ID] {
					categoryIDs = append(categoryIDs, cat.ID)
				}
			}
		}

		active := b.IsActive
		rb := rawBrand{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Active:      &active,
			SortOrder:   b.SortOrder,
		}
		for _, id := range categoryIDs {
			rb.Categories = append(rb.Categories, exportCategory(categories[id], g.products[id]))
		}
		out.Brands = append(out.Brands, rb)
	}
	return out
}

func exportCategory(cat domain.Category, ps []domain.Product) rawCategory {
	active := cat.IsActive
	rc := rawCategory{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Active:      &active,
		SortOrder:   cat.SortOrder,
	}
	for _, p := range ps {
		rc.Products = append(rc.Products, exportProduct(p))
	}
	return rc
}

func exportProduct(p domain.Product) rawProduct {
	inStock := p.InStock
	rp := rawProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     &inStock,
		Featured:    p.Featured,
		Tags:        p.Tags,
	}

	rp.ImageURL, rp.ImageFile, rp.ImageAlt = exportImage(p.Image)

	for _, g := range p.Gallery {
		url, file, alt := exportImage(g)
		rp.Gallery = append(rp.Gallery, rawImage{URL: url, File: file, Alt: alt})
	}
	for _, v := range p.Variants {
		rp.Variants = append(rp.Variants, rawVariant{
			ID:        v.ID,
			Name:      v.Name,
			Price:     v.Price,
			UnitPrice: v.UnitPrice,
			InStock:   v.InStock,
		})
	}
	return rp
}

// exportImage inverts image resolution: external images keep their URL,
// bundled assets collapse back to a filename, the placeholder exports as
// nothing at all.
func exportImage(img domain.Image) (url, file, alt string) {
	switch {
	case img.Origin == domain.ImageOriginExternal:
		url = img.URL
	case img.URL != domain.PlaceholderAsset:
		file = path.Base(img.URL)
	}
	return url, file, img.Alt
}
