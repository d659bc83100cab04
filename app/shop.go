// Package app ties the catalog, the search engine and the cart into a single
// storefront with an explicit state value. Views render a State and turn user
// input into Actions; they never touch the cart or catalog directly.
//
// A Shop is not safe for concurrent use. Callers deliver one event at a time.
package app

import (
	"fmt"

	"bookstall/cart"
	"bookstall/catalog"
	"bookstall/models"
	"bookstall/search"

	"go.uber.org/zap"
)

// State is the user-controlled part of the storefront
type State struct {
	Criteria models.Criteria
	// DetailID is the book shown in the detail dialog, empty when closed
	DetailID string
	CartOpen bool
	// Notice is a one-shot message such as an order confirmation
	Notice string
}

// Shop owns the catalog, cart and checkout collaborator
type Shop struct {
	catalog     *catalog.Catalog
	cart        *cart.Cart
	checkout    Checkout
	currentYear int
	logger      *zap.Logger
	lastReceipt *Receipt
}

// NewShop creates a shop. currentYear <= 0 means the wall-clock year.
func NewShop(cat *catalog.Catalog, c *cart.Cart, co Checkout, currentYear int, logger *zap.Logger) *Shop {
	if co == nil {
		co = StubCheckout{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shop{
		catalog:     cat,
		cart:        c,
		checkout:    co,
		currentYear: currentYear,
		logger:      logger,
	}
}

// InitialState returns the state a new visitor starts with: everything up to the
// most expensive book, no category filter, relevance order.
func (s *Shop) InitialState() State {
	return State{
		Criteria: models.Criteria{
			MaxPrice: s.catalog.MaxPrice(),
			Sort:     models.SortRelevance,
		},
	}
}

// Catalog returns the current catalog
func (s *Shop) Catalog() *catalog.Catalog {
	return s.catalog
}

// Cart returns the cart
func (s *Shop) Cart() *cart.Cart {
	return s.cart
}

// SetCatalog swaps in a reloaded catalog. Cart entries keep their snapshots.
func (s *Shop) SetCatalog(c *catalog.Catalog) {
	s.catalog = c
}

// LastReceipt returns the receipt of the most recent checkout, if any
func (s *Shop) LastReceipt() (Receipt, bool) {
	if s.lastReceipt == nil {
		return Receipt{}, false
	}
	return *s.lastReceipt, true
}

// Results runs the search engine for st
func (s *Shop) Results(st State) []models.Book {
	return search.Apply(s.catalog.Books(), st.Criteria, s.currentYear)
}

// Dispatch applies a to st and returns the new state. Cart actions persist
// the cart; a persistence error is returned alongside the updated state.
func (s *Shop) Dispatch(st State, a Action) (State, error) {
	st.Notice = ""
	next, err := a.apply(s, st)
	if err != nil {
		s.logger.Warn("action failed", zap.String("action", fmt.Sprintf("%T", a)), zap.Error(err))
	}
	return next, err
}

func (s *Shop) checkoutCart(st State) (State, error) {
	if s.cart.Len() == 0 {
		return st, nil
	}
	receipt, err := s.checkout.Submit(s.cart.Entries(), s.cart.Subtotal())
	if err != nil {
		return st, fmt.Errorf("submit order: %w", err)
	}
	s.lastReceipt = &receipt
	s.logger.Info("order placed",
		zap.String("reference", receipt.Reference),
		zap.Int("items", receipt.Items),
		zap.String("subtotal", receipt.Subtotal.StringFixed(2)))

	st.CartOpen = false
	st.Notice = fmt.Sprintf("Thank you! Order %s placed: %d item(s), %s.",
		receipt.Reference, receipt.Items, FormatPrice(receipt.Subtotal))
	return st, s.cart.Clear()
}
