// Package cart holds the shopping cart and persists it to a key-value store.
//
// The cart keeps the book snapshot taken when the book was first added. Later
// catalog changes (price, description) are not reflected in existing entries.
package cart

import (
	"errors"
	"fmt"
	"math"

	"bookstall/models"
	"bookstall/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the snapshot lives under
const DefaultKey = "bookstall.cart"

// Storage is the part of storage.Store the cart needs
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Cart maps book ids to entries, preserving insertion order
type Cart struct {
	store   Storage
	key     string
	logger  *zap.Logger
	order   []string
	entries map[string]*models.CartEntry
}

// New creates an empty cart bound to store under key. Call Load to restore
// a previously saved snapshot.
func New(store Storage, key string, logger *zap.Logger) *Cart {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{
		store:   store,
		key:     key,
		logger:  logger,
		entries: make(map[string]*models.CartEntry),
	}
}

// Load replaces the cart contents with the stored snapshot. A missing,
// unreadable or malformed snapshot leaves the cart empty.
func (c *Cart) Load() {
	c.reset()

	data, err := c.store.Get(c.key)
	if errors.Is(err, storage.ErrNotFound) {
		c.logger.Debug("no saved cart", zap.String("key", c.key))
		return
	}
	if err != nil {
		c.logger.Warn("reading saved cart failed, starting empty", zap.String("key", c.key), zap.Error(err))
		return
	}

	order, entries, err := decodeSnapshot(data)
	if err != nil {
		c.logger.Warn("saved cart is malformed, starting empty", zap.String("key", c.key), zap.Error(err))
		return
	}
	c.order = order
	c.entries = entries
	c.logger.Debug("cart restored", zap.Int("entries", len(order)), zap.Int("items", c.TotalItems()))
}

// Add puts one more copy of b in the cart
func (c *Cart) Add(b models.Book) error {
	if e, ok := c.entries[b.ID]; ok {
		e.Qty++
	} else {
		c.entries[b.ID] = &models.CartEntry{Book: b, Qty: 1}
		c.order = append(c.order, b.ID)
	}
	return c.save()
}

// Remove deletes the entry for id. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) error {
	if _, ok := c.entries[id]; !ok {
		return nil
	}
	delete(c.entries, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return c.save()
}

// ChangeQuantity adds delta to the quantity of id. The quantity never drops
// below 1; use Remove to take a book out. Absent ids are ignored.
func (c *Cart) ChangeQuantity(id string, delta int) error {
	e, ok := c.entries[id]
	if !ok {
		return nil
	}
	if delta > 0 && e.Qty > math.MaxInt-delta {
		e.Qty = math.MaxInt
	} else {
		e.Qty = max(1, e.Qty+delta)
	}
	return c.save()
}

// Clear empties the cart
func (c *Cart) Clear() error {
	c.reset()
	return c.save()
}

// Get returns the entry for id
func (c *Cart) Get(id string) (models.CartEntry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return models.CartEntry{}, false
	}
	return *e, true
}

// Entries returns the entries in the order they were first added
func (c *Cart) Entries() []models.CartEntry {
	out := make([]models.CartEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entries[id])
	}
	return out
}

// Len returns the number of distinct books
func (c *Cart) Len() int {
	return len(c.order)
}

// Subtotal is the sum of price × quantity over all entries
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.entries[id].LineTotal())
	}
	return total
}

// TotalItems is the sum of all quantities
func (c *Cart) TotalItems() int {
	n := 0
	for _, id := range c.order {
		n += c.entries[id].Qty
	}
	return n
}

func (c *Cart) reset() {
	c.order = nil
	c.entries = make(map[string]*models.CartEntry)
}

// save overwrites the stored snapshot. The in-memory state is kept even when
// the write fails.
func (c *Cart) save() error {
	data, err := encodeSnapshot(c.order, c.entries)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(c.key, data); err != nil {
		c.logger.Error("saving cart failed", zap.String("key", c.key), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
