package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bookstall/cart"
	"bookstall/catalog"
	"bookstall/models"
	"bookstall/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.Book{
		{ID: "A", Title: "Apple Tales", Author: "Ann", Category: "Fiction", Price: decimal.RequireFromString("9.99"), Rating: 4, Year: 2020},
		{ID: "B", Title: "Byte Code", Author: "Bob", Category: "Tech", Price: decimal.RequireFromString("29.99"), Rating: 5, Year: 2022, Cover: "b.png"},
		{ID: "C", Title: "Cider", Author: "Cat", Category: "Fiction", Price: decimal.RequireFromString("5.50"), Rating: 3, Year: 0},
	})
	require.NoError(t, err)
	return c
}

func newShop(t *testing.T, co Checkout) (*Shop, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	c := cart.New(store, cart.DefaultKey, zap.NewNop())
	c.Load()
	return NewShop(testCatalog(t), c, co, 2025, zap.NewNop()), store
}

func dispatch(t *testing.T, s *Shop, st State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		st, err = s.Dispatch(st, a)
		require.NoError(t, err)
	}
	return st
}

func resultIDs(v View) []string {
	var out []string
	for _, c := range v.Results {
		out = append(out, c.ID)
	}
	return out
}

func TestInitialStateShowsWholeCatalog(t *testing.T) {
	s, _ := newShop(t, nil)
	v := s.Render(s.InitialState())

	assert.Equal(t, 3, v.ResultCount)
	assert.True(t, decimal.RequireFromString("29.99").Equal(v.MaxPrice))
	assert.Equal(t, models.SortRelevance, v.Sort)
	require.Len(t, v.Categories, 2)
	assert.Equal(t, models.Category("Fiction"), v.Categories[0].Name)
	assert.False(t, v.Categories[0].Selected)
}

func TestFilterActions(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(),
		SetMaxPrice{Max: decimal.NewFromInt(10)},
	)
	assert.ElementsMatch(t, []string{"A", "C"}, resultIDs(s.Render(st)))

	st = dispatch(t, s, st, SetSort{Mode: models.SortPriceAsc})
	assert.Equal(t, []string{"C", "A"}, resultIDs(s.Render(st)))

	st = dispatch(t, s, st, SetQuery{Query: "APPLE"})
	assert.Equal(t, []string{"A"}, resultIDs(s.Render(st)))

	st = dispatch(t, s, st, SetQuery{Query: ""}, SetMaxPrice{Max: decimal.NewFromInt(100)}, ToggleCategory{Category: "Tech"})
	v := s.Render(st)
	assert.Equal(t, []string{"B"}, resultIDs(v))
	assert.True(t, v.Categories[1].Selected)

	st = dispatch(t, s, st, ToggleCategory{Category: "Tech"})
	assert.Empty(t, st.Criteria.Categories)
}

func TestSetMaxPriceRejectsNegative(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(), SetMaxPrice{Max: decimal.NewFromInt(-5)})
	assert.True(t, st.Criteria.MaxPrice.IsZero())
}

func TestDetails(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(), ShowDetails{ID: "B"})
	v := s.Render(st)
	require.NotNil(t, v.Detail)
	assert.Equal(t, "Byte Code", v.Detail.Title)
	assert.True(t, v.Detail.HasCover)

	st = dispatch(t, s, st, ShowDetails{ID: "nope"})
	assert.Equal(t, "B", st.DetailID, "unknown ids are ignored")

	st = dispatch(t, s, st, CloseDetails{})
	assert.Nil(t, s.Render(st).Detail)
}

func TestCartActions(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(),
		AddToCart{ID: "A"}, AddToCart{ID: "A"}, AddToCart{ID: "C"}, AddToCart{ID: "missing"},
	)
	v := s.Render(st)
	require.Len(t, v.CartLines, 2)
	assert.Equal(t, 3, v.ItemCount)
	assert.True(t, decimal.RequireFromString("25.48").Equal(v.Subtotal), "got %s", v.Subtotal)
	assert.True(t, decimal.RequireFromString("19.98").Equal(v.CartLines[0].LineTotal))
	for _, c := range v.Results {
		if c.ID == "A" {
			assert.Equal(t, 2, c.InCart)
		}
	}

	st = dispatch(t, s, st, ChangeQty{ID: "A", Delta: -10}, RemoveFromCart{ID: "C"})
	v = s.Render(st)
	require.Len(t, v.CartLines, 1)
	assert.Equal(t, 1, v.CartLines[0].Qty)

	st = dispatch(t, s, st, ToggleCart{})
	assert.True(t, s.Render(st).CartOpen)
}

func TestCheckout(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, store := newShop(t, StubCheckout{Now: func() time.Time { return at }})

	st := dispatch(t, s, s.InitialState(), AddToCart{ID: "B"}, ToggleCart{}, PlaceOrder{})
	assert.Contains(t, st.Notice, "Thank you")
	assert.Contains(t, st.Notice, "$29.99")
	assert.False(t, st.CartOpen)
	assert.Equal(t, 0, s.Cart().Len())

	r, ok := s.LastReceipt()
	require.True(t, ok)
	assert.Equal(t, 1, r.Items)
	assert.Equal(t, at, r.PlacedAt)
	assert.NotEmpty(t, r.Reference)

	data, err := store.Get(cart.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data), "checkout persists the emptied cart")

	st = dispatch(t, s, st, SetQuery{Query: "x"})
	assert.Empty(t, st.Notice, "notices are shown once")
}

func TestCheckoutEmptyCartIsNoop(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(), PlaceOrder{})
	assert.Empty(t, st.Notice)
	_, ok := s.LastReceipt()
	assert.False(t, ok)
}

type brokenCheckout struct{}

func (brokenCheckout) Submit([]models.CartEntry, decimal.Decimal) (Receipt, error) {
	return Receipt{}, errors.New("gateway down")
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	s, _ := newShop(t, brokenCheckout{})
	st := dispatch(t, s, s.InitialState(), AddToCart{ID: "A"})
	_, err := s.Dispatch(st, PlaceOrder{})
	require.Error(t, err)
	assert.Equal(t, 1, s.Cart().Len())
}

func TestReloadedCatalogKeepsCartSnapshot(t *testing.T) {
	s, _ := newShop(t, nil)
	st := dispatch(t, s, s.InitialState(), AddToCart{ID: "A"})

	dearer, err := catalog.New([]models.Book{
		{ID: "A", Title: "Apple Tales", Author: "Ann", Category: "Fiction", Price: decimal.NewFromInt(99)},
	})
	require.NoError(t, err)
	s.SetCatalog(dearer)

	v := s.Render(st)
	require.Len(t, v.CartLines, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(v.CartLines[0].Price))
	assert.True(t, decimal.NewFromInt(99).Equal(v.PriceCeiling))
}

func TestStubCheckoutReferencesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r, err := StubCheckout{}.Submit(nil, decimal.Zero)
		require.NoError(t, err)
		assert.False(t, seen[r.Reference])
		seen[r.Reference] = true
		assert.Len(t, strings.Split(r.Reference, "-"), 5)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$25.50", FormatPrice(decimal.RequireFromString("25.5")))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
}
