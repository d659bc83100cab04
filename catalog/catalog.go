// Package catalog loads the static book catalog the storefront sells from.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookstall/models"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed books.json
var defaultBooks []byte

// ErrInvalidBook is returned when a catalog record fails validation
var ErrInvalidBook = errors.New("invalid book record")

// Catalog is an ordered, read-only sequence of books
type Catalog struct {
	books       []models.Book
	index       map[string]int
	categories  []models.Category
	maxPrice    decimal.Decimal
	fingerprint string
}

// New builds a catalog from books in the given order
func New(books []models.Book) (*Catalog, error) {
	c := &Catalog{
		books: make([]models.Book, len(books)),
		index: make(map[string]int, len(books)),
	}
	copy(c.books, books)

	seenCategory := make(map[models.Category]bool)
	for i, b := range c.books {
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("%w: record %d has an empty id", ErrInvalidBook, i)
		}
		if _, dup := c.index[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidBook, b.ID)
		}
		if b.Price.IsNegative() {
			return nil, fmt.Errorf("%w: book %q has a negative price", ErrInvalidBook, b.ID)
		}
		if strings.TrimSpace(string(b.Category)) == "" {
			return nil, fmt.Errorf("%w: book %q has no category", ErrInvalidBook, b.ID)
		}
		c.index[b.ID] = i

		if !seenCategory[b.Category] {
			seenCategory[b.Category] = true
			c.categories = append(c.categories, b.Category)
		}
		if b.Price.GreaterThan(c.maxPrice) {
			c.maxPrice = b.Price
		}
	}

	canonical, err := json.Marshal(c.books)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	c.fingerprint = fmt.Sprintf("%016x", xxhash.Sum64(canonical))
	return c, nil
}

// Load reads a catalog from a JSON or YAML file, chosen by extension
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var books []models.Book
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &books)
	default:
		err = json.Unmarshal(data, &books)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return New(books)
}

// Default returns the catalog bundled with the binary
func Default() *Catalog {
	var books []models.Book
	if err := json.Unmarshal(defaultBooks, &books); err != nil {
		panic(fmt.Sprintf("bundled catalog is corrupt: %v", err))
	}
	c, err := New(books)
	if err != nil {
		panic(fmt.Sprintf("bundled catalog is invalid: %v", err))
	}
	return c
}

// Books returns a copy of the catalog in its original order
func (c *Catalog) Books() []models.Book {
	out := make([]models.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Get looks a book up by id
func (c *Catalog) Get(id string) (models.Book, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Book{}, false
	}
	return c.books[i], true
}

// Len returns the number of books
func (c *Catalog) Len() int {
	return len(c.books)
}

// Categories returns the distinct categories in order of first appearance
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// MaxPrice returns the highest price in the catalog, the default price ceiling
func (c *Catalog) MaxPrice() decimal.Decimal {
	return c.maxPrice
}

// Fingerprint identifies the catalog contents
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}
