// internal/core/query_params.go
package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default and limit constants for show listings
const (
	DefaultLimit = 0 // no limit
	MaxLimit     = 250
	DefaultOrder = "asc"
)

// ErrInvalidQuery wraps every query parameter validation failure.
var ErrInvalidQuery = errors.New("invalid query parameter")

// ReservedParams contains the query parameter names understood by /api/data.
var ReservedParams = map[string]bool{
	"limit": true,
	"sort":  true,
	"order": true,
}

// SortFields are the show fields a listing can be sorted by.
var SortFields = map[string]bool{
	"title":     true,
	"rating":    true,
	"premiered": true,
}

// ShowQueryOptions holds parsed query parameters for the show listing.
type ShowQueryOptions struct {
	// Limit of 0 returns every show.
	Limit int

	SortBy    string
	SortOrder string // "asc" or "desc"
}

// ParseShowQueryOptions extracts limit and sorting options from query parameters.
// Returns the parsed options and any validation error.
func ParseShowQueryOptions(queryParams url.Values) (*ShowQueryOptions, error) {
	opts := &ShowQueryOptions{
		Limit:     DefaultLimit,
		SortOrder: DefaultOrder,
	}

	if limitStr := queryParams.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 'limit' must be an integer", ErrInvalidQuery)
		}
		if limit < 1 {
			return nil, fmt.Errorf("%w: 'limit' must be at least 1", ErrInvalidQuery)
		}
		if limit > MaxLimit {
			return nil, fmt.Errorf("%w: 'limit' maximum is %d", ErrInvalidQuery, MaxLimit)
		}
		opts.Limit = limit
	}

	if sortBy := queryParams.Get("sort"); sortBy != "" {
		sortBy = strings.ToLower(sortBy)
		if !SortFields[sortBy] {
			return nil, fmt.Errorf("%w: 'sort' value '%s' is not one of title, rating, premiered", ErrInvalidQuery, sortBy)
		}
		opts.SortBy = sortBy
		// Ratings and dates read naturally newest/highest first.
		if sortBy != "title" {
			opts.SortOrder = "desc"
		}
	}

	if order := queryParams.Get("order"); order != "" {
		lowerOrder := strings.ToLower(order)
		if lowerOrder != "asc" && lowerOrder != "desc" {
			return nil, fmt.Errorf("%w: 'order' must be 'asc' or 'desc'", ErrInvalidQuery)
		}
		opts.SortOrder = lowerOrder
	}

	return opts, nil
}

// IsReservedParam checks if a query parameter name is understood by the listing.
func IsReservedParam(key string) bool {
	return ReservedParams[strings.ToLower(key)]
}
