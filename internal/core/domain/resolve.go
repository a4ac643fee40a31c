package domain

// PlaceholderAsset is the terminal image fallback. Image resolution never
// produces an empty URL.
const PlaceholderAsset = "/assets/images/product-placeholder.png"

// bundledAssets maps catalog image filenames to assets shipped with the
// storefront bundle.
var bundledAssets = map[string]string{
	"desi-ghee.jpg":        "/assets/images/products/desi-ghee.jpg",
	"cold-pressed-oil.jpg": "/assets/images/products/cold-pressed-oil.jpg",
	"chakki-atta.jpg":      "/assets/images/products/chakki-atta.jpg",
	"besan.jpg":            "/assets/images/products/besan.jpg",
	"turmeric-powder.jpg":  "/assets/images/products/turmeric-powder.jpg",
	"garam-masala.jpg":     "/assets/images/products/garam-masala.jpg",
	"basmati-rice.jpg":     "/assets/images/products/basmati-rice.jpg",
	"jaggery-blocks.jpg":   "/assets/images/products/jaggery-blocks.jpg",
	"masala-khakhra.jpg":   "/assets/images/products/masala-khakhra.jpg",
	"toor-dal.jpg":         "/assets/images/products/toor-dal.jpg",
	"poha.jpg":             "/assets/images/products/poha.jpg",
	"kaju-katli.jpg":       "/assets/images/products/kaju-katli.jpg",
}

// ResolveImage picks the first usable image location: an explicit source
// URL, then a bundled asset matching the filename, then the placeholder.
func ResolveImage(explicitURL, filename, alt string) Image {
	if explicitURL != "" {
		return Image{
			URL:         explicitURL,
			FallbackURL: PlaceholderAsset,
			Alt:         alt,
			Origin:      ImageOriginExternal,
		}
	}

	if asset, ok := bundledAssets[filename]; ok {
		return Image{
			URL:         asset,
			FallbackURL: PlaceholderAsset,
			Alt:         alt,
			Origin:      ImageOriginLocal,
		}
	}

	return Image{
		URL:         PlaceholderAsset,
		FallbackURL: PlaceholderAsset,
		Alt:         alt,
		Origin:      ImageOriginLocal,
	}
}

// ResolvePrice reconciles the unified price: a source-supplied top-level
// price, else the first in-stock variant, else the first variant. An empty
// result means "contact for pricing".
func ResolvePrice(topLevel string, vs []ProductVariant) string {
	if topLevel != "" {
		return topLevel
	}

	for _, v := range vs {
		if v.InStock {
			return v.Price
		}
	}

	if len(vs) > 0 {
		return vs[0].Price
	}
	return ""
}

// ResolveInStock derives the product-level stock flag as the OR of variant
// flags unless the source supplies its own top-level flag.
func ResolveInStock(explicit *bool, vs []ProductVariant) bool {
	if explicit != nil {
		return *explicit
	}

	for _, v := range vs {
		if v.InStock {
			return true
		}
	}
	return false
}
