package domain

import "time"

type SortField string

const (
	SortNone   SortField = ""
	SortByName SortField = "name"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ProductQuery describes one facade invocation. All supplied filters are
// ANDed; nil pointer filters are "not supplied".
type ProductQuery struct {
	BrandID    string
	CategoryID string
	Featured   *bool
	InStock    *bool
	Search     string
	Sort       SortField
	Order      SortDirection
	Offset     int
	Limit      int
}

// ProductPage is the paginated result of a ProductQuery.
// Limit <= 0 means "no limit".
type ProductPage struct {
	Items   []Product
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// SyncEvent announces an administrative catalog re-sync to peer instances.
type SyncEvent struct {
	Origin      string
	Reason      string
	RequestedAt time.Time
}
