package sanity

import (
	"fmt"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

type (
	queryResponse struct {
		Result rawResult `json:"result"`
		MS     int       `json:"ms"`
	}

	rawResult struct {
		Products   []rawProduct  `json:"products"`
		Brands     []rawBrand    `json:"brands"`
		Categories []rawCategory `json:"categories"`
	}

	rawProduct struct {
		ID          string       `json:"_id"`
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Price       string       `json:"price"`
		InStock     *bool        `json:"inStock"`
		Featured    bool         `json:"featured"`
		ImageURL    string       `json:"imageUrl"`
		ImageAlt    string       `json:"imageAlt"`
		ImageFile   string       `json:"imageFile"`
		Gallery     []rawImage   `json:"gallery"`
		Tags        []string     `json:"tags"`
		Variants    []rawVariant `json:"variants"`
		Brand       rawRef       `json:"brand"`
		Category    rawRef       `json:"category"`
	}

	rawImage struct {
		URL  string `json:"url"`
		File string `json:"file"`
		Alt  string `json:"alt"`
	}

	rawVariant struct {
		ID        string  `json:"_key"`
		Name      string  `json:"name"`
		Price     string  `json:"price"`
		UnitPrice float64 `json:"unitPrice"`
		InStock   bool    `json:"inStock"`
	}

	rawRef struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}

	rawBrand struct {
		ID          string `json:"_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		IsActive    *bool  `json:"isActive"`
		SortOrder   int    `json:"sortOrder"`
	}

	rawCategory struct {
		ID          string `json:"_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		IsActive    *bool  `json:"isActive"`
		SortOrder   int    `json:"sortOrder"`
	}
)

func transformCatalog(raw rawResult) (domain.Catalog, error) {
	var c domain.Catalog

	for _, rp := range raw.Products {
		p, err := transformProduct(rp)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Products = append(c.Products, p)
	}

	for _, rb := range raw.Brands {
		b, err := transformBrand(rb)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Brands = append(c.Brands, b)
	}

	for _, rc := range raw.Categories {
		cat, err := transformCategory(rc)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Categories = append(c.Categories, cat)
	}

	return c, nil
}

func transformProduct(r rawProduct) (domain.Product, error) {
	if r.ID == "" {
		return domain.Product{}, fmt.Errorf(
			"product %q: missing _id: %w", r.Name, domain.ErrMalformedRecord,
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
		Brand:       domain.BrandRef{ID: r.Brand.ID, Name: r.Brand.Name},
		Category:    domain.CategoryRef{ID: r.Category.ID, Name: r.Category.Name},
		Variants:    variants,
		Tags:        append([]string(nil), r.Tags...),
	}, nil
}

func transformBrand(r rawBrand) (domain.Brand, error) {
	if r.ID == "" {
		return domain.Brand{}, fmt.Errorf(
			"brand %q: missing _id: %w", r.Name, domain.ErrMalformedRecord,
		)
	}
	return domain.Brand{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    activeOrDefault(r.IsActive),
		SortOrder:   r.SortOrder,
	}, nil
}

func transformCategory(r rawCategory) (domain.Category, error) {
	if r.ID == "" {
		return domain.Category{}, fmt.Errorf(
			"category %q: missing _id: %w", r.Name, domain.ErrMalformedRecord,
		)
	}
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    activeOrDefault(r.IsActive),
		SortOrder:   r.SortOrder,
	}, nil
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
