package app

import (
	"bookstall/models"

	"github.com/shopspring/decimal"
)

// View is everything a front end needs to draw the storefront. It holds raw
// text; each front end escapes it for its own medium.
type View struct {
	Query        string
	MaxPrice     decimal.Decimal
	PriceCeiling decimal.Decimal
	Categories   []CategoryOption
	SortOptions  []SortOption
	Sort         models.SortMode
	ResultCount  int
	Results      []Card
	Detail       *Card
	CartOpen     bool
	CartLines    []CartLine
	Subtotal     decimal.Decimal
	ItemCount    int
	Notice       string
}

// CategoryOption is a category filter toggle
type CategoryOption struct {
	Name     models.Category
	Selected bool
}

// SortOption is an entry of the sort selector
type SortOption struct {
	Mode     models.SortMode
	Label    string
	Selected bool
}

// Card is a book as shown in the result grid and the detail dialog
type Card struct {
	ID          string
	Title       string
	Author      string
	Category    models.Category
	Price       decimal.Decimal
	Rating      float64
	Year        int
	Tags        []string
	Description string
	HasCover    bool
	InCart      int
}

// CartLine is one entry of the cart panel
type CartLine struct {
	ID        string
	Title     string
	Author    string
	Price     decimal.Decimal
	Qty       int
	LineTotal decimal.Decimal
}

// Render builds the view of st. It reads the catalog and cart but changes nothing.
func (s *Shop) Render(st State) View {
	v := View{
		Query:        st.Criteria.Query,
		MaxPrice:     st.Criteria.MaxPrice,
		PriceCeiling: s.catalog.MaxPrice(),
		Sort:         models.ParseSortMode(string(st.Criteria.Sort)),
		CartOpen:     st.CartOpen,
		Subtotal:     s.cart.Subtotal(),
		ItemCount:    s.cart.TotalItems(),
		Notice:       st.Notice,
	}

	for _, c := range s.catalog.Categories() {
		v.Categories = append(v.Categories, CategoryOption{Name: c, Selected: st.Criteria.HasCategory(c)})
	}
	for _, m := range models.SortModes {
		v.SortOptions = append(v.SortOptions, SortOption{Mode: m, Label: m.Label(), Selected: m == v.Sort})
	}

	results := s.Results(st)
	v.ResultCount = len(results)
	v.Results = make([]Card, 0, len(results))
	for _, b := range results {
		v.Results = append(v.Results, s.card(b))
	}

	if st.DetailID != "" {
		if b, ok := s.catalog.Get(st.DetailID); ok {
			card := s.card(b)
			v.Detail = &card
		}
	}

	for _, e := range s.cart.Entries() {
		v.CartLines = append(v.CartLines, CartLine{
			ID:        e.Book.ID,
			Title:     e.Book.Title,
			Author:    e.Book.Author,
			Price:     e.Book.Price,
			Qty:       e.Qty,
			LineTotal: e.LineTotal(),
		})
	}
	return v
}

func (s *Shop) card(b models.Book) Card {
	c := Card{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Price:       b.Price,
		Rating:      b.Rating,
		Year:        b.Year,
		Tags:        b.Tags,
		Description: b.Description,
		HasCover:    b.Cover != "",
	}
	if e, ok := s.cart.Get(b.ID); ok {
		c.InCart = e.Qty
	}
	return c
}

// FormatPrice renders an amount as dollars with two decimals
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
