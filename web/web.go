// Package web serves the HTML storefront, its JSON endpoints and the OPDS feeds.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"

	"bookstall/app"
	"bookstall/catalog"
	"bookstall/covers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// WebInterface is the HTTP front end of a Shop. All handlers that touch the
// shop hold mu, so events reach the shop one at a time.
type WebInterface struct {
	mu     sync.Mutex
	shop   *app.Shop
	covers *covers.Thumbnailer
	logger *zap.Logger
	title  string
	// notice is carried across the post/redirect/get of a checkout
	notice string

	templateCache *template.Template
	templateOnce  sync.Once
	templateErr   error
}

// NewWebInterface creates the web front end. thumbs may be nil, in which case
// every cover is a placeholder.
func NewWebInterface(shop *app.Shop, thumbs *covers.Thumbnailer, title string, logger *zap.Logger) *WebInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebInterface{
		shop:   shop,
		covers: thumbs,
		logger: logger,
		title:  title,
	}
}

// Routes returns the storefront router
func (w *WebInterface) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(w.requestLogger)

	r.Get("/", w.ShowStorefront)
	r.Post("/cart/add/{id}", w.AddToCartHandler)
	r.Post("/cart/remove/{id}", w.RemoveFromCartHandler)
	r.Post("/cart/qty/{id}", w.ChangeQtyHandler)
	r.Post("/checkout", w.CheckoutHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", w.BooksAPIHandler)
		r.Get("/cart", w.CartAPIHandler)
	})

	r.Get("/opds", w.OPDSRootHandler)
	r.Get("/opds/books", w.OPDSBooksHandler)

	r.Get("/covers/{id}", w.CoverHandler)
	return r
}

// SetCatalog swaps in a reloaded catalog between requests
func (w *WebInterface) SetCatalog(c *catalog.Catalog) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shop.SetCatalog(c)
	w.logger.Info("catalog swapped", zap.Int("books", c.Len()), zap.String("fingerprint", c.Fingerprint()))
}

func (w *WebInterface) loadTemplates() (*template.Template, error) {
	w.templateOnce.Do(func() {
		w.templateCache, w.templateErr = template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	})
	return w.templateCache, w.templateErr
}

func (w *WebInterface) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(wr, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		w.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("remote", r.RemoteAddr))
	})
}

func (w *WebInterface) writeJSONResponse(wr http.ResponseWriter, data interface{}) {
	wr.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(wr).Encode(data); err != nil {
		w.logger.Warn("write json response", zap.Error(err))
	}
}

func (w *WebInterface) writeJSONError(wr http.ResponseWriter, message string, statusCode int) {
	wr.Header().Set("Content-Type", "application/json")
	wr.WriteHeader(statusCode)
	json.NewEncoder(wr).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
