package store

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// numericFilterPattern detects values like "25", ">100" or "<=3".
var numericFilterPattern = regexp.MustCompile(`^[<>=]*[0-9]+$`)

// BuildSearchFilter turns field filters into a mongo predicate. The
// reserved transport keys token and pretty are never data fields, and
// password matching is never permitted through generic search; all three
// are stripped. Every other value becomes a case-insensitive regex match.
// A numeric-looking value makes the whole search unsupported (false).
func BuildSearchFilter(filters map[string]string) (bson.M, bool) {
	filter := bson.M{
		"deleted": bson.M{"$ne": true},
	}

	for field, value := range filters {
		switch field {
		case "token", "pretty", "password":
			continue
		}

		if numericFilterPattern.MatchString(value) {
			return nil, false
		}

		filter[field] = bson.M{"$regex": value, "$options": "i"}
	}

	return filter, true
}

// ClampLimit validates a paginated limit, falling back to DefaultLimit
// when absent or out of range.
func ClampLimit(limit int) int {
	if limit > 0 && limit < MaxLimit {
		return limit
	}

	return DefaultLimit
}

// SortDirection maps ASC/DESC onto mongo sort values, falling back to
// DefaultOrder when no order was given.
func SortDirection(order string) int {
	if order == "" {
		order = DefaultOrder
	}

	if strings.EqualFold(order, "DESC") {
		return -1
	}

	return 1
}
