package localsource

import (
	"fmt"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

// The bundled document nests products under brands[].categories[].
type (
	rawCatalog struct {
		Brands []rawBrand `json:"brands"`
	}

	rawBrand struct {
		ID          string        `json:"id"`
		Name        string        `json:"name"`
		Description string        `json:"description"`
		Active      *bool         `json:"active"`
		SortOrder   int           `json:"sortOrder"`
		Categories  []rawCategory `json:"categories"`
	}

	rawCategory struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Active      *bool        `json:"active"`
		SortOrder   int          `json:"sortOrder"`
		Products    []rawProduct `json:"products"`
	}

	rawProduct struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Price       string       `json:"price"`
		InStock     *bool        `json:"inStock"`
		Featured    bool         `json:"featured"`
		ImageURL    string       `json:"imageUrl"`
		ImageFile   string       `json:"imageFile"`
		ImageAlt    string       `json:"imageAlt"`
		Gallery     []rawImage   `json:"gallery"`
		Tags        []string     `json:"tags"`
		Variants    []rawVariant `json:"variants"`
	}

	rawImage struct {
		URL  string `json:"url"`
		File string `json:"file"`
		Alt  string `json:"alt"`
	}

	rawVariant struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Price     string  `json:"price"`
		UnitPrice float64 `json:"unitPrice"`
		InStock   bool    `json:"inStock"`
	}
)

func transformCatalog(raw rawCatalog) (domain.Catalog, error) {
	var c domain.Catalog
	seenCategories := make(map[string]bool)

	for _, rb := range raw.Brands {
		brand, err := transformBrand(rb)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Brands = append(c.Brands, brand)

		for _, rc := range rb.Categories {
			category, err := transformCategory(rc)
			if err != nil {
				return domain.Catalog{}, err
			}
			if !seenCategories[category.ID] {
				seenCategories[category.ID] = true
				c.Categories = append(c.Categories, category)
			}

			for _, rp := range rc.Products {
				p, err := transformProduct(rp, brand, category)
				if err != nil {
					return domain.Catalog{}, err
				}
				c.Products = append(c.Products, p)
			}
		}
	}

	return c, nil
}

func transformBrand(r rawBrand) (domain.Brand, error) {
	if r.ID == "" {
		return domain.Brand{}, fmt.Errorf(
			"brand %q: missing id: %w", r.Name, domain.ErrMalformedRecord,
		)
	}
	return domain.Brand{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    activeOrDefault(r.Active),
		SortOrder:   r.SortOrder,
	}, nil
}

func transformCategory(r rawCategory) (domain.Category, error) {
	if r.ID == "" {
		return domain.Category{}, fmt.Errorf(
			"category %q: missing id: %w", r.Name, domain.ErrMalformedRecord,
		)
	}
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    activeOrDefault(r.Active),
		SortOrder:   r.SortOrder,
	}, nil
}

func transformProduct(
	r rawProduct, brand domain.Brand, category domain.Category,
) (domain.Product, error) {
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

	alt := r.ImageAlt
	if alt == "" {
		alt = r.Name
	}

	gallery := make([]domain.Image, 0, len(r.Gallery))
	for _, g := range r.Gallery {
		gallery = append(gallery, domain.ResolveImage(g.URL, g.File, g.Alt))
	}

	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       domain.ResolvePrice(r.Price, variants),
		InStock:     domain.ResolveInStock(r.InStock, variants),
		Featured:    r.Featured,
		Image:       domain.ResolveImage(r.ImageURL, r.ImageFile, alt),
		Gallery:     gallery,
		Brand:       domain.BrandRef{ID: brand.ID, Name: brand.Name},
		Category:    domain.CategoryRef{ID: category.ID, Name: category.Name},
		Variants:    variants,
		Tags:        append([]string(nil), r.Tags...),
	}, nil
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
