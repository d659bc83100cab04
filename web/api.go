package web

import (
	"fmt"
	"net/http"
	"strings"

	"bookstall/app"
	"bookstall/models"
	"bookstall/search"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

type booksResponse struct {
	Count int           `json:"count"`
	Books []models.Book `json:"books"`
}

type cartResponse struct {
	Items      []models.CartEntry `json:"items"`
	TotalItems int                `json:"total_items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	LastOrder  *app.Receipt       `json:"last_order,omitempty"`
}

// BooksAPIHandler returns the books matching the storefront parameters as JSON
func (w *WebInterface) BooksAPIHandler(wr http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateFromQuery(r.URL.Query())
	etag := booksETag(w.shop.Catalog().Fingerprint(), st.Criteria)
	wr.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		wr.WriteHeader(http.StatusNotModified)
		return
	}

	books := w.shop.Results(st)
	if books == nil {
		books = []models.Book{}
	}
	w.writeJSONResponse(wr, booksResponse{Count: len(books), Books: books})
}

// CartAPIHandler returns the cart contents as JSON
func (w *WebInterface) CartAPIHandler(wr http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	c := w.shop.Cart()
	resp := cartResponse{
		Items:      c.Entries(),
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
	if receipt, ok := w.shop.LastReceipt(); ok {
		resp.LastOrder = &receipt
	}
	w.mu.Unlock()

	if resp.Items == nil {
		resp.Items = []models.CartEntry{}
	}
	w.writeJSONResponse(wr, resp)
}

// booksETag changes whenever the catalog or the criteria change
func booksETag(fingerprint string, c models.Criteria) string {
	cats := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		cats[i] = string(cat)
	}
	key := strings.Join([]string{
		search.Fold(strings.TrimSpace(c.Query)),
		c.MaxPrice.String(),
		strings.Join(cats, "\x1f"),
		string(models.ParseSortMode(string(c.Sort))),
	}, "\x1e")
	return fmt.Sprintf(`"%s-%016x"`, fingerprint, xxhash.Sum64String(key))
}

