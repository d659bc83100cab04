package web

import (
	"errors"
	"net/http"

	"bookstall/covers"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CoverHandler serves the thumbnail of a catalog book, or a generated
// placeholder when the book has no usable cover.
func (w *WebInterface) CoverHandler(wr http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	w.mu.Lock()
	book, ok := w.shop.Catalog().Get(id)
	w.mu.Unlock()
	if !ok {
		http.NotFound(wr, r)
		return
	}

	if w.covers != nil {
		path, err := w.covers.Thumbnail(book)
		switch {
		case err == nil:
			wr.Header().Set("Content-Type", "image/jpeg")
			http.ServeFile(wr, r, path)
			return
		case errors.Is(err, covers.ErrNoCover):
		case errors.Is(err, covers.ErrNotImage):
			w.logger.Warn("cover is not an image", zap.String("book", id), zap.Error(err))
		default:
			w.logger.Error("cover thumbnail", zap.String("book", id), zap.Error(err))
			http.Error(wr, "cover unavailable", http.StatusInternalServerError)
			return
		}
	}

	png, err := covers.Placeholder(id)
	if err != nil {
		w.logger.Error("cover placeholder", zap.String("book", id), zap.Error(err))
		http.Error(wr, "cover unavailable", http.StatusInternalServerError)
		return
	}
	wr.Header().Set("Content-Type", "image/png")
	wr.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := wr.Write(png); err != nil {
		w.logger.Debug("write placeholder", zap.String("book", id), zap.Error(err))
	}
}
