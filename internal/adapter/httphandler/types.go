package httphandler

import (
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
)

type (
	Product struct {
		ID          string           `json:"id"`
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Price       string           `json:"price"`
		InStock     bool             `json:"in_stock"`
		Featured    bool             `json:"featured"`
		Image       Image            `json:"image"`
		Gallery     []Image          `json:"gallery,omitempty"`
		Brand       EntityRef        `json:"brand"`
		Category    EntityRef        `json:"category"`
		Variants    []ProductVariant `json:"variants"`
		Tags        []string         `json:"tags"`
	}

	ProductVariant struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Price     string  `json:"price"`
		UnitPrice float64 `json:"unit_price"`
		InStock   bool    `json:"in_stock"`
	}

	Image struct {
		URL         string `json:"url"`
		FallbackURL string `json:"fallback_url"`
		Alt         string `json:"alt"`
		Origin      string `json:"origin"`
	}

	EntityRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Brand struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		IsActive    bool   `json:"is_active"`
		SortOrder   int    `json:"sort_order"`
	}

	Category struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		IsActive    bool   `json:"is_active"`
		SortOrder   int    `json:"sort_order"`
	}

	Metadata struct {
		TotalProducts   int       `json:"total_products"`
		TotalBrands     int       `json:"total_brands"`
		TotalCategories int       `json:"total_categories"`
		LastUpdated     time.Time `json:"last_updated"`
		DataSource      string    `json:"data_source"`
	}

	Catalog struct {
		Products   []Product  `json:"products"`
		Brands     []Brand    `json:"brands"`
		Categories []Category `json:"categories"`
		Metadata   Metadata   `json:"metadata"`
	}

	ProductPage struct {
		Items   []Product `json:"items"`
		Total   int       `json:"total"`
		Offset  int       `json:"offset"`
		Limit   int       `json:"limit"`
		HasMore bool      `json:"has_more"`
	}
)

type SourceRequest struct {
	Source string `json:"source"`
}

type ResyncRequest struct {
	Reason string `json:"reason"`
}

func toAPIProduct(p domain.Product) Product {
	ap := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     p.InStock,
		Featured:    p.Featured,
		Image:       toAPIImage(p.Image),
		Brand:       EntityRef{ID: p.Brand.ID, Name: p.Brand.Name},
		Category:    EntityRef{ID: p.Category.ID, Name: p.Category.Name},
		Tags:        p.Tags,
	}

	ap.Variants = make([]ProductVariant, len(p.Variants))
	for i, v := range p.Variants {
		ap.Variants[i] = ProductVariant{
			ID:        v.ID,
			Name:      v.Name,
			Price:     v.Price,
			UnitPrice: v.UnitPrice,
			InStock:   v.InStock,
		}
	}

	for _, g := range p.Gallery {
		ap.Gallery = append(ap.Gallery, toAPIImage(g))
	}
	return ap
}

func toAPIImage(img domain.Image) Image {
	return Image{
		URL:         img.URL,
		FallbackURL: img.FallbackURL,
		Alt:         img.Alt,
		Origin:      string(img.Origin),
	}
}

func toAPIProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toAPIProduct(p)
	}
	return out
}

func toAPIBrands(bs []domain.Brand) []Brand {
	out := make([]Brand, len(bs))
	for i, b := range bs {
		out[i] = Brand{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			IsActive:    b.IsActive,
			SortOrder:   b.SortOrder,
		}
	}
	return out
}

func toAPICategories(cs []domain.Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = Category{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			IsActive:    c.IsActive,
			SortOrder:   c.SortOrder,
		}
	}
	return out
}

func toAPICatalog(c domain.Catalog) Catalog {
	return Catalog{
		Products:   toAPIProducts(c.Products),
		Brands:     toAPIBrands(c.Brands),
		Categories: toAPICategories(c.Categories),
		Metadata: Metadata{
			TotalProducts:   c.Metadata.TotalProducts,
			TotalBrands:     c.Metadata.TotalBrands,
			TotalCategories: c.Metadata.TotalCategories,
			LastUpdated:     c.Metadata.LastUpdated,
			DataSource:      string(c.Metadata.DataSource),
		},
	}
}

func toAPIPage(pg domain.ProductPage) ProductPage {
	return ProductPage{
		Items:   toAPIProducts(pg.Items),
		Total:   pg.Total,
		Offset:  pg.Offset,
		Limit:   pg.Limit,
		HasMore: pg.HasMore,
	}
}
