package domain

import "time"

// Source tags the origin of a catalog snapshot.
type Source string

const (
	SourceLocal   Source = "local"
	SourceSanity  Source = "sanity"
	SourceBackend Source = "backend"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceLocal, SourceSanity, SourceBackend:
		return true
	}
	return false
}

// ImageOrigin distinguishes bundled assets from external CDN URLs.
type ImageOrigin string

const (
	ImageOriginLocal    ImageOrigin = "local"
	ImageOriginExternal ImageOrigin = "external"
)

type (
	Product struct {
		ID          string
		Name        string
		Description string
		Price       string
		InStock     bool
		Featured    bool
		Image       Image
		Gallery     []Image
		Brand       BrandRef
		Category    CategoryRef
		Variants    []ProductVariant
		Tags        []string
	}

	ProductVariant struct {
		ID        string
		Name      string
		Price     string
		UnitPrice float64
		InStock   bool
	}

	Image struct {
		URL         string
		FallbackURL string
		Alt         string
		Origin      ImageOrigin
	}

	BrandRef struct {
		ID   string
		Name string
	}

	CategoryRef struct {
		ID   string
		Name string
	}

	Brand struct {
		ID          string
		Name        string
		Description string
		IsActive    bool
		SortOrder   int
	}

	Category struct {
		ID          string
		Name        string
		Description string
		IsActive    bool
		SortOrder   int
	}
)

// Catalog is the normalized snapshot every consumer works with,
// regardless of which source produced it.
type Catalog struct {
	Products   []Product
	Brands     []Brand
	Categories []Category
	Metadata   Metadata
}

// Metadata reflects the last successful fetch that produced the snapshot.
type Metadata struct {
	TotalProducts   int
	TotalBrands     int
	TotalCategories int
	LastUpdated     time.Time
	DataSource      Source
}
