package app

import (
	"bookstall/models"

	"github.com/shopspring/decimal"
)

// Action is a user event delivered to Shop.Dispatch
type Action interface {
	apply(s *Shop, st State) (State, error)
}

// SetQuery replaces the search text
type SetQuery struct{ Query string }

// SetMaxPrice moves the price ceiling. Negative values are treated as zero.
type SetMaxPrice struct{ Max decimal.Decimal }

// ToggleCategory adds the category to the selection or removes it
type ToggleCategory struct{ Category models.Category }

// SetSort selects the result ordering
type SetSort struct{ Mode models.SortMode }

// ShowDetails opens the detail dialog for a book
type ShowDetails struct{ ID string }

// CloseDetails closes the detail dialog
type CloseDetails struct{}

// ToggleCart opens or closes the cart panel
type ToggleCart struct{}

// AddToCart adds one copy of a catalog book
type AddToCart struct{ ID string }

// RemoveFromCart drops a cart entry
type RemoveFromCart struct{ ID string }

// ChangeQty changes the quantity of a cart entry by Delta, never below 1
type ChangeQty struct {
	ID    string
	Delta int
}

// PlaceOrder submits the cart to checkout and empties it. No-op on an empty cart.
type PlaceOrder struct{}

func (a SetQuery) apply(_ *Shop, st State) (State, error) {
	st.Criteria.Query = a.Query
	return st, nil
}

func (a SetMaxPrice) apply(_ *Shop, st State) (State, error) {
	if a.Max.IsNegative() {
		st.Criteria.MaxPrice = decimal.Zero
	} else {
		st.Criteria.MaxPrice = a.Max
	}
	return st, nil
}

func (a ToggleCategory) apply(_ *Shop, st State) (State, error) {
	selected := make([]models.Category, 0, len(st.Criteria.Categories)+1)
	found := false
	for _, c := range st.Criteria.Categories {
		if c == a.Category {
			found = true
			continue
		}
		selected = append(selected, c)
	}
	if !found {
		selected = append(selected, a.Category)
	}
	st.Criteria.Categories = selected
	return st, nil
}

func (a SetSort) apply(_ *Shop, st State) (State, error) {
	st.Criteria.Sort = models.ParseSortMode(string(a.Mode))
	return st, nil
}

func (a ShowDetails) apply(s *Shop, st State) (State, error) {
	if _, ok := s.catalog.Get(a.ID); ok {
		st.DetailID = a.ID
	}
	return st, nil
}

func (CloseDetails) apply(_ *Shop, st State) (State, error) {
	st.DetailID = ""
	return st, nil
}

func (ToggleCart) apply(_ *Shop, st State) (State, error) {
	st.CartOpen = !st.CartOpen
	return st, nil
}

func (a AddToCart) apply(s *Shop, st State) (State, error) {
	b, ok := s.catalog.Get(a.ID)
	if !ok {
		return st, nil
	}
	return st, s.cart.Add(b)
}

func (a RemoveFromCart) apply(s *Shop, st State) (State, error) {
	return st, s.cart.Remove(a.ID)
}

func (a ChangeQty) apply(s *Shop, st State) (State, error) {
	return st, s.cart.ChangeQuantity(a.ID, a.Delta)
}

func (PlaceOrder) apply(s *Shop, st State) (State, error) {
	return s.checkoutCart(st)
}
