// internal/showdata/summary.go
package showdata

import (
	"sort"
	"strings"
	"time"
)

// Summary aggregates shows for the chart and KPI components.
type Summary struct {
	ByGenre map[string]int `json:"byGenre"`
	ByMonth map[string]int `json:"byMonth"`
	Total   int            `json:"total"`
}

// Summarize counts shows per genre and per premiere month (YYYY-MM).
// Shows without a parseable premiere date are left out of ByMonth only.
func Summarize(shows []Show) Summary {
	s := Summary{
		ByGenre: map[string]int{},
		ByMonth: map[string]int{},
		Total:   len(shows),
	}
	for _, show := range shows {
		for _, g := range show.Genres {
			s.ByGenre[g]++
		}
		if month, ok := premiereMonth(show); ok {
			s.ByMonth[month]++
		}
	}
	return s
}

func premiereMonth(s Show) (string, bool) {
	if s.Premiered == nil {
		return "", false
	}
	t, err := time.Parse("2006-01-02", *s.Premiered)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01"), true
}

// SortShows orders shows in place by field ("title", "rating" or
// "premiered"). Shows missing the field sort last in either direction.
// An empty field leaves the order unchanged.
func SortShows(shows []Show, field string, desc bool) {
	less := lessFunc(field)
	if less == nil {
		return
	}
	sort.SliceStable(shows, func(i, j int) bool {
		a, b := shows[i], shows[j]
		aok, bok := has(a, field), has(b, field)
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
}

func lessFunc(field string) func(a, b Show) bool {
	switch field {
	case "title":
		return func(a, b Show) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case "rating":
		return func(a, b Show) bool { return *a.Rating < *b.Rating }
	case "premiered":
		// ISO dates compare correctly as strings.
		return func(a, b Show) bool { return *a.Premiered < *b.Premiered }
	default:
		return nil
	}
}

func has(s Show, field string) bool {
	switch field {
	case "rating":
		return s.Rating != nil
	case "premiered":
		return s.Premiered != nil && *s.Premiered != ""
	default:
		return true
	}
}

// Take returns at most limit shows. A limit below 1 returns them all.
func Take(shows []Show, limit int) []Show {
	if limit < 1 || limit >= len(shows) {
		return shows
	}
	return shows[:limit]
}
