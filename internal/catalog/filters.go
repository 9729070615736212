package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filters is the immutable filter set behind a product query. Equality by
// field comparison drives re-fetching: any change invalidates fetched pages.
type Filters struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Color    string
	Size     string
	Sort     Sort
}

// normalizedSort collapses an absent sort to the newest-first default.
func (f Filters) normalizedSort() Sort {
	if strings.TrimSpace(string(f.Sort)) == "" {
		return SortNewest
	}
	return f.Sort
}

// Equal compares filter sets field by field, treating an absent sort as
// SortNewest on both sides.
func (f Filters) Equal(other Filters) bool {
	return strings.TrimSpace(f.Category) == strings.TrimSpace(other.Category) &&
		strings.TrimSpace(f.Search) == strings.TrimSpace(other.Search) &&
		floatPtrEqual(f.MinPrice, other.MinPrice) &&
		floatPtrEqual(f.MaxPrice, other.MaxPrice) &&
		strings.TrimSpace(f.Color) == strings.TrimSpace(other.Color) &&
		strings.TrimSpace(f.Size) == strings.TrimSpace(other.Size) &&
		f.normalizedSort() == other.normalizedSort()
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// QueryString encodes the filter set plus an optional cursor. Fields are
// trimmed; empty values are omitted. Sort is always present, defaulting to
// "newest". Parameter order is stable: category, search, minPrice, maxPrice,
// color, size, sort, cursor.
func (f Filters) QueryString(cursor *int64) string {
	var pairs []string
	add := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		pairs = append(pairs, key+"="+url.QueryEscape(value))
	}

	add("category", f.Category)
	add("search", f.Search)
	add("minPrice", formatPrice(f.MinPrice))
	add("maxPrice", formatPrice(f.MaxPrice))
	add("color", f.Color)
	add("size", f.Size)
	add("sort", string(f.normalizedSort()))
	if cursor != nil {
		add("cursor", strconv.FormatInt(*cursor, 10))
	}

	return strings.Join(pairs, "&")
}

func formatPrice(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// DecodeFilters parses a query string produced by QueryString back into the
// filter set and cursor it came from.
func DecodeFilters(query string) (Filters, *int64, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return Filters{}, nil, fmt.Errorf("parse filters query: %w", err)
	}

	filters := Filters{
		Category: values.Get("category"),
		Search:   values.Get("search"),
		Color:    values.Get("color"),
		Size:     values.Get("size"),
		Sort:     Sort(values.Get("sort")),
	}
	if filters.Sort == "" {
		filters.Sort = SortNewest
	}

	if raw := values.Get("minPrice"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Filters{}, nil, fmt.Errorf("parse minPrice: %w", err)
		}
		filters.MinPrice = &parsed
	}
	if raw := values.Get("maxPrice"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Filters{}, nil, fmt.Errorf("parse maxPrice: %w", err)
		}
		filters.MaxPrice = &parsed
	}

	var cursor *int64
	if raw := values.Get("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Filters{}, nil, fmt.Errorf("parse cursor: %w", err)
		}
		cursor = &parsed
	}

	return filters, cursor, nil
}
