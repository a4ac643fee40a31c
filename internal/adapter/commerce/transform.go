package commerce

import (
	"fmt"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

type (
	pageResponse struct {
		Data       []rawProduct `json:"data"`
		Page       int          `json:"page"`
		Size       int          `json:"size"`
		TotalItems int          `json:"totalItems"`
		TotalPages int          `json:"totalPages"`
	}

	rawProduct struct {
		ID            string       `json:"id"`
		Name          string       `json:"name"`
		Description   string       `json:"description"`
		Price         string       `json:"price"`
		StockQuantity *int         `json:"stockQuantity"`
		Featured      bool         `json:"featured"`
		ImageURL      string       `json:"imageUrl"`
		ImageFile     string       `json:"imageFile"`
		ImageAlt      string       `json:"imageAlt"`
		BrandID       string       `json:"brandId"`
		BrandName     string       `json:"brandName"`
		CategoryID    string       `json:"categoryId"`
		CategoryName  string       `json:"categoryName"`
		Tags          []string     `json:"tags"`
		Variants      []rawVariant `json:"variants"`
	}

	rawVariant struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Price     string  `json:"price"`
		UnitPrice float64 `json:"unitPrice"`
		InStock   bool    `json:"inStock"`
	}
)

// transformCatalog normalizes the aggregated product list. The API has no
// brand/category endpoints, so both sets are synthesized by deduplicating
// product references on id, first occurrence wins.
func transformCatalog(raw []rawProduct) (domain.Catalog, error) {
	var c domain.Catalog

	for _, rp := range raw {
		p, err := transformProduct(rp)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Products = append(c.Products, p)
	}

	c.Brands = deriveBrands(c.Products)
	c.Categories = deriveCategories(c.Products)
	return c, nil
}

func transformProduct(r rawProduct) (domain.Product, error) {
	if r.ID == "" {
		return domain.Product{}, fmt.Errorf(
			"product %q: missing id: %w", r.Name, domain.ErrMalformedRecord,
		)
	}

	variants := make([]domain.ProductVariant, 0, len(r.Variants))
	for _, rv := range r.Variants {
		variants = append(variants, domain.ProductVariant{
			ID:        rv.ID,
			Name:      rv.Name,
			Price:     rv.Price,
			UnitPrice: rv.UnitPrice,
			InStock:   rv.InStock,
		})
	}

	var explicitStock *bool
	if r.StockQuantity != nil {
		inStock := *r.StockQuantity > 0
		explicitStock = &inStock
	}

	alt := r.ImageAlt
	if alt == "" {
		alt = r.Name
	}

	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       domain.ResolvePrice(r.Price, variants),
		InStock:     domain.ResolveInStock(explicitStock, variants),
		Featured:    r.Featured,
		Image:       domain.ResolveImage(r.ImageURL, r.ImageFile, alt),
		Brand:       domain.BrandRef{ID: r.BrandID, Name: r.BrandName},
		Category:    domain.CategoryRef{ID: r.CategoryID, Name: r.CategoryName},
		Variants:    variants,
		Tags:        append([]string(nil), r.Tags...),
	}, nil
}

func deriveBrands(ps []domain.Product) []domain.Brand {
	seen := make(map[string]bool)
	var bs []domain.Brand
	for _, p := range ps {
		if p.Brand.ID == "" || seen[p.Brand.ID] {
			continue
		}
		seen[p.Brand.ID] = true
		bs = append(bs, domain.Brand{
			ID:       p.Brand.ID,
			Name:     p.Brand.Name,
			IsActive: true,
		})
	}
	return bs
}

func deriveCategories(ps []domain.Product) []domain.Category {
	seen := make(map[string]bool)
	var cs []domain.Category
	for _, p := range ps {
		if p.Category.ID == "" || seen[p.Category.ID] {
			continue
		}
		seen[p.Category.ID] = true
		cs = append(cs, domain.Category{
			ID:       p.Category.ID,
			Name:     p.Category.Name,
			IsActive: true,
		})
	}
	return cs
}
