package web

import (
	"net/http"
	"net/url"
	"strconv"

	"bookstall/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartHandler adds one copy of {id} and redirects back to the storefront
func (w *WebInterface) AddToCartHandler(wr http.ResponseWriter, r *http.Request) {
	w.dispatchAndRedirect(wr, r, app.AddToCart{ID: chi.URLParam(r, "id")})
}

// RemoveFromCartHandler drops {id} from the cart
func (w *WebInterface) RemoveFromCartHandler(wr http.ResponseWriter, r *http.Request) {
	w.dispatchAndRedirect(wr, r, app.RemoveFromCart{ID: chi.URLParam(r, "id")})
}

// ChangeQtyHandler changes the quantity of {id} by the form value delta
func (w *WebInterface) ChangeQtyHandler(wr http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil {
		http.Error(wr, "invalid delta", http.StatusBadRequest)
		return
	}
	w.dispatchAndRedirect(wr, r, app.ChangeQty{ID: chi.URLParam(r, "id"), Delta: delta})
}

// CheckoutHandler places the order. The confirmation is shown on the next page view.
func (w *WebInterface) CheckoutHandler(wr http.ResponseWriter, r *http.Request) {
	w.dispatchAndRedirect(wr, r, app.PlaceOrder{})
}

func (w *WebInterface) dispatchAndRedirect(wr http.ResponseWriter, r *http.Request, a app.Action) {
	w.mu.Lock()
	st := w.stateFromQuery(r.URL.Query())
	st, err := w.shop.Dispatch(st, a)
	if st.Notice != "" {
		w.notice = st.Notice
	}
	target := "/?" + encodeState(st).Encode()
	w.mu.Unlock()

	if err != nil {
		// the cart change is applied in memory even when saving it failed
		w.logger.Warn("cart action", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.Redirect(wr, r, target, http.StatusSeeOther)
}

func actionURL(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
