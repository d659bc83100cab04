// Package search filters and orders catalog books for the storefront.
package search

import (
	"sort"
	"strings"
	"time"

	"bookstall/models"

	"golang.org/x/text/cases"
)

// Matches reports whether b passes the price ceiling, category and query filters.
// The query is matched against title, author and tags under Unicode case
// folding, so "STRASSE" finds "Straße".
func Matches(b models.Book, c models.Criteria) bool {
	if b.Price.GreaterThan(c.MaxPrice) {
		return false
	}
	if len(c.Categories) > 0 && !c.HasCategory(b.Category) {
		return false
	}
	q := normalizeQuery(c.Query)
	if q == "" {
		return true
	}
	return contains(b.Title, q) || contains(b.Author, q) || anyTagContains(b.Tags, q)
}

// Apply returns the books matching c, ordered by c.Sort. Ties keep catalog order.
// books is not modified.
func Apply(books []models.Book, c models.Criteria, currentYear int) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if Matches(b, c) {
			out = append(out, b)
		}
	}

	switch c.Sort {
	case models.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case models.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.GreaterThan(out[j].Price)
		})
	case models.SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	case models.SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Year > out[j].Year
		})
	default:
		year := resolveYear(currentYear)
		ranked := make([]scored, len(out))
		for i, b := range out {
			ranked[i] = scored{book: b, score: Score(b, c.Query, year)}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].score > ranked[j].score
		})
		for i := range ranked {
			out[i] = ranked[i].book
		}
	}
	return out
}

type scored struct {
	book  models.Book
	score float64
}

func resolveYear(y int) int {
	if y > 0 {
		return y
	}
	return time.Now().Year()
}

func normalizeQuery(q string) string {
	return Fold(strings.TrimSpace(q))
}

// Fold returns s under full Unicode case folding, the form queries are
// compared in. A Caser keeps state, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// contains expects q to be folded already
func contains(s, q string) bool {
	return strings.Contains(Fold(s), q)
}

func anyTagContains(tags []string, q string) bool {
	for _, t := range tags {
		if contains(t, q) {
			return true
		}
	}
	return false
}
