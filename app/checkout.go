package app

import (
	"time"

	"bookstall/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt confirms a submitted order
type Receipt struct {
	Reference string          `json:"reference"`
	Items     int             `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// Checkout submits the cart contents as an order
type Checkout interface {
	Submit(entries []models.CartEntry, subtotal decimal.Decimal) (Receipt, error)
}

// StubCheckout accepts every order without charging anything.
type StubCheckout struct {
	Now func() time.Time
}

// Submit issues a receipt with a fresh reference
func (s StubCheckout) Submit(entries []models.CartEntry, subtotal decimal.Decimal) (Receipt, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	items := 0
	for _, e := range entries {
		items += e.Qty
	}
	return Receipt{
		Reference: uuid.NewString(),
		Items:     items,
		Subtotal:  subtotal,
		PlacedAt:  now(),
	}, nil
}
