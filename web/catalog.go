package web

import (
	"net/http"
	"net/url"
	"strings"

	"bookstall/app"
	"bookstall/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pageData is what the storefront template renders
type pageData struct {
	Title  string
	View   app.View
	Params url.Values
}

// ShowStorefront renders the storefront for the state encoded in the URL
func (w *WebInterface) ShowStorefront(wr http.ResponseWriter, r *http.Request) {
	tmpl, err := w.loadTemplates()
	if err != nil {
		w.logger.Error("parse templates", zap.Error(err))
		http.Error(wr, "Template error", http.StatusInternalServerError)
		return
	}

	w.mu.Lock()
	st := w.stateFromQuery(r.URL.Query())
	st.Notice, w.notice = w.notice, ""
	data := pageData{
		Title:  w.title,
		View:   w.shop.Render(st),
		Params: encodeState(st),
	}
	w.mu.Unlock()

	wr.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(wr, "index", data); err != nil {
		w.logger.Error("execute template", zap.Error(err))
		http.Error(wr, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.logger.Debug("storefront rendered",
		zap.String("query", data.View.Query),
		zap.Int("results", data.View.ResultCount))
}

// stateFromQuery rebuilds a State from the storefront parameters by replaying
// them as actions, so URL input goes through the same rules as any other event.
// Callers hold mu.
func (w *WebInterface) stateFromQuery(q url.Values) app.State {
	st := w.shop.InitialState()
	var actions []app.Action

	if query := q.Get("q"); query != "" {
		actions = append(actions, app.SetQuery{Query: query})
	}
	if raw := strings.TrimSpace(q.Get("max")); raw != "" {
		if max, err := decimal.NewFromString(raw); err == nil {
			actions = append(actions, app.SetMaxPrice{Max: max})
		}
	}
	known := map[models.Category]bool{}
	for _, c := range w.shop.Catalog().Categories() {
		known[c] = true
	}
	for _, raw := range q["cat"] {
		c := models.Category(raw)
		if known[c] {
			actions = append(actions, app.ToggleCategory{Category: c})
			known[c] = false
		}
	}
	if sort := q.Get("sort"); sort != "" {
		actions = append(actions, app.SetSort{Mode: models.SortMode(sort)})
	}
	if id := q.Get("book"); id != "" {
		actions = append(actions, app.ShowDetails{ID: id})
	}
	if q.Get("cart") == "1" {
		actions = append(actions, app.ToggleCart{})
	}

	for _, a := range actions {
		// none of these actions touch the cart, so they cannot fail
		st, _ = w.shop.Dispatch(st, a)
	}
	return st
}

// encodeState is the inverse of stateFromQuery
func encodeState(st app.State) url.Values {
	v := url.Values{}
	if st.Criteria.Query != "" {
		v.Set("q", st.Criteria.Query)
	}
	v.Set("max", st.Criteria.MaxPrice.String())
	for _, c := range st.Criteria.Categories {
		v.Add("cat", string(c))
	}
	if st.Criteria.Sort != "" && st.Criteria.Sort != models.SortRelevance {
		v.Set("sort", string(st.Criteria.Sort))
	}
	if st.DetailID != "" {
		v.Set("book", st.DetailID)
	}
	if st.CartOpen {
		v.Set("cart", "1")
	}
	return v
}
