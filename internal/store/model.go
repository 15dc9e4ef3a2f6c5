package store

import "go.mongodb.org/mongo-driver/bson"

const (
	// MaxLimit caps paginated queries.
	MaxLimit = 30

	// DefaultLimit applies when a paginated query carries no usable limit.
	DefaultLimit = 20

	DefaultOrder = "ASC"
)

// Query holds the normalized search options translated from the URL.
type Query struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

type UpdateResult struct {
	Error   bool  `json:"error"`
	Updated int64 `json:"updated"`
}

// SearchResult is a plain document slice, or a slice plus the total
// matching count when the query asked for a page.
type SearchResult struct {
	Paged     bool
	Total     int64
	Documents []bson.M
}
