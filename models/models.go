package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a catalog section such as "Fiction" or "Tech".
type Category string

// Book is a catalog record. Books are loaded once and never mutated.
type Book struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Author      string          `json:"author" yaml:"author"`
	Category    Category        `json:"category" yaml:"category"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Rating      float64         `json:"rating" yaml:"rating"`
	Year        int             `json:"year" yaml:"year"`
	Tags        []string        `json:"tags" yaml:"tags"`
	Description string          `json:"description" yaml:"description"`
	// Cover is a path relative to the covers directory, empty when the book has none
	Cover string `json:"cover,omitempty" yaml:"cover,omitempty"`
}

// MarshalJSON writes the book in the catalog file's shape: the price as a
// JSON number and tags as an array even when there are none.
func (b Book) MarshalJSON() ([]byte, error) {
	type record Book
	r := record(b)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return json.Marshal(struct {
		record
		Price json.Number `json:"price"`
	}{record: r, Price: json.Number(b.Price.String())})
}

// SortMode selects the ordering of search results
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortRating    SortMode = "rating"
	SortNewest    SortMode = "newest"
)

// SortModes lists all modes in the order they are offered to the user
var SortModes = []SortMode{SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortNewest}

// Label returns the human readable name of the mode
func (m SortMode) Label() string {
	switch m {
	case SortPriceAsc:
		return "Price: low to high"
	case SortPriceDesc:
		return "Price: high to low"
	case SortRating:
		return "Top rated"
	case SortNewest:
		return "Newest"
	default:
		return "Relevance"
	}
}

// ParseSortMode parses a sort mode, falling back to relevance for unknown input
func ParseSortMode(s string) SortMode {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range SortModes {
		if string(m) == s {
			return m
		}
	}
	return SortRelevance
}

// Criteria is the user's current filter selection
type Criteria struct {
	Query string
	// MaxPrice is an inclusive ceiling
	MaxPrice decimal.Decimal
	// Categories restricts results to these categories; empty means no restriction
	Categories []Category
	Sort       SortMode
}

// HasCategory reports whether c is among the selected categories
func (c Criteria) HasCategory(cat Category) bool {
	for _, sel := range c.Categories {
		if sel == cat {
			return true
		}
	}
	return false
}

// CartEntry is a book snapshot together with its quantity
type CartEntry struct {
	Book Book `json:"book"`
	Qty  int  `json:"qty"`
}

// LineTotal returns price × qty
func (e CartEntry) LineTotal() decimal.Decimal {
	return e.Book.Price.Mul(decimal.NewFromInt(int64(e.Qty)))
}
