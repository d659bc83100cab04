package web

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"bookstall/opds"

	"go.uber.org/zap"
)

// OPDSRootHandler serves the navigation feed: all books, one entry per
// category and the newest titles
func (w *WebInterface) OPDSRootHandler(wr http.ResponseWriter, r *http.Request) {
	now := time.Now()
	feed := opds.NewFeed("bookstall:root", w.title, "/opds", opds.NavigationType, now)
	feed.Links = append(feed.Links, opds.Link{
		Rel:  "search",
		Type: opds.AcquisitionType,
		Href: "/opds/books?q={searchTerms}",
	})

	feed.Entries = append(feed.Entries,
		opds.NavigationEntry("All books", "bookstall:books", "Every book in the catalog", "/opds/books", now),
		opds.NavigationEntry("Newest", "bookstall:newest", "Books by publication year", "/opds/books?sort=newest", now),
	)

	w.mu.Lock()
	categories := w.shop.Catalog().Categories()
	w.mu.Unlock()
	for _, c := range categories {
		href := "/opds/books?" + url.Values{"cat": {string(c)}}.Encode()
		feed.Entries = append(feed.Entries,
			opds.NavigationEntry(string(c), "bookstall:category:"+string(c), "Books in "+string(c), href, now))
	}

	w.writeFeed(wr, feed, opds.NavigationType)
}

// OPDSBooksHandler serves the acquisition feed of the books matching the
// storefront parameters
func (w *WebInterface) OPDSBooksHandler(wr http.ResponseWriter, r *http.Request) {
	now := time.Now()

	w.mu.Lock()
	st := w.stateFromQuery(r.URL.Query())
	books := w.shop.Results(st)
	w.mu.Unlock()

	title := w.title
	if st.Criteria.Query != "" {
		title += ": " + st.Criteria.Query
	}
	feed := opds.NewFeed("bookstall:books", title, "/opds/books?"+encodeState(st).Encode(), opds.AcquisitionType, now)
	for _, b := range books {
		feed.Entries = append(feed.Entries, opds.BookEntry(b, now))
	}

	w.writeFeed(wr, feed, opds.AcquisitionType)
}

func (w *WebInterface) writeFeed(wr http.ResponseWriter, feed *opds.Feed, kind string) {
	var buf bytes.Buffer
	if err := feed.Encode(&buf); err != nil {
		w.logger.Error("encode opds feed", zap.String("id", feed.ID), zap.Error(err))
		http.Error(wr, "XML encoding error", http.StatusInternalServerError)
		return
	}
	wr.Header().Set("Content-Type", kind+"; charset=utf-8")
	wr.Write(buf.Bytes())
}
