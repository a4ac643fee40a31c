package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// QueryProducts runs filter, search, sort and pagination over the current
// snapshot. Search matches are returned in source order (the snapshot's
// insertion order), which is deterministic for a fixed dataset.
//
// Invalid query arguments are programmer errors and fail fast; a query with
// no matches returns an empty page, never an error.
func (s *CatalogService) QueryProducts(
	ctx context.Context, q domain.ProductQuery,
) (domain.ProductPage, error) {
	const op = "CatalogService.QueryProducts"

	if err := validateQuery(q); err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.Products(ctx)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	ps = FilterProducts(ps, q)
	if q.Search != "" {
		ps = SearchProducts(ps, q.Search)
	}
	if q.Sort == domain.SortByName {
		SortProductsByName(ps, q.Order == domain.SortDesc)
	}

	return paginate(ps, q.Offset, q.Limit), nil
}

func validateQuery(q domain.ProductQuery) error {
	if q.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", domain.ErrInvalidQuery, q.Offset)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", domain.ErrInvalidQuery, q.Limit)
	}

	switch q.Sort {
	case domain.SortNone, domain.SortByName:
	default:
		return fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidQuery, q.Sort)
	}

	switch q.Order {
	case "", domain.SortAsc, domain.SortDesc:
	default:
		return fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidQuery, q.Order)
	}
	return nil
}

// FilterProducts ANDs the exact-match predicates of q. The result is always
// a fresh slice, the snapshot is never mutated.
func FilterProducts(ps []domain.Product, q domain.ProductQuery) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if q.BrandID != "" && p.Brand.ID != q.BrandID {
			continue
		}
		if q.CategoryID != "" && p.Category.ID != q.CategoryID {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		if q.InStock != nil && p.InStock != *q.InStock {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SearchProducts matches term case-insensitively as a substring of the
// product name, description, tags, brand name and category name.
func SearchProducts(ps []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]domain.Product, len(ps))
		copy(out, ps)
		return out
	}

	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if matchesProduct(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func matchesProduct(p domain.Product, term string) bool {
	fields := []string{p.Name, p.Description, p.Brand.Name, p.Category.Name}
	fields = append(fields, p.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortProductsByName sorts in place, locale-aware, stable.
func SortProductsByName(ps []domain.Product, desc bool) {
	col := collate.New(language.Und)
	sort.SliceStable(ps, func(i, j int) bool {
		c := col.CompareString(ps[i].Name, ps[j].Name)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// SortBrands orders by SortOrder (missing sorts as 0), ties keep insertion
// order.
func SortBrands(bs []domain.Brand, desc bool) []domain.Brand {
	out := make([]domain.Brand, len(bs))
	copy(out, bs)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].SortOrder > out[j].SortOrder
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// SortCategories orders by SortOrder (missing sorts as 0), ties keep
// insertion order.
func SortCategories(cs []domain.Category, desc bool) []domain.Category {
	out := make([]domain.Category, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].SortOrder > out[j].SortOrder
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

func paginate(ps []domain.Product, offset, limit int) domain.ProductPage {
	total := len(ps)

	start := offset
	if start > total {
		start = total
	}

	end := total
	if limit > 0 && start+limit < total {
		end = start + limit
	}

	items := make([]domain.Product, end-start)
	copy(items, ps[start:end])

	return domain.ProductPage{
		Items:   items,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(items) < total,
	}
}
