// Package opds builds Atom/OPDS catalog feeds of the storefront so e-reader
// apps can browse it.
package opds

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"bookstall/models"
)

const (
	NavigationType  = "application/atom+xml;profile=opds-catalog;kind=navigation"
	AcquisitionType = "application/atom+xml;profile=opds-catalog;kind=acquisition"

	relThumbnail = "http://opds-spec.org/image/thumbnail"
	relImage     = "http://opds-spec.org/image"
	relBuy       = "http://opds-spec.org/acquisition/buy"

	timeFormat = "2006-01-02T15:04:05Z07:00"
)

type Link struct {
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr,omitempty"`
	Price *Price `xml:"opds:price,omitempty"`
}

// Price is an OPDS price attached to a buy link
type Price struct {
	CurrencyCode string `xml:"currencycode,attr"`
	Value        string `xml:",chardata"`
}

type Content struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type Author struct {
	Name string `xml:"name"`
}

type Category struct {
	Term  string `xml:"term,attr"`
	Label string `xml:"label,attr"`
}

type Entry struct {
	XMLName    xml.Name   `xml:"entry"`
	Title      string     `xml:"title"`
	ID         string     `xml:"id"`
	Updated    string     `xml:"updated"`
	Authors    []Author   `xml:"author,omitempty"`
	Issued     string     `xml:"dc:issued,omitempty"`
	Categories []Category `xml:"category,omitempty"`
	Content    Content    `xml:"content"`
	Links      []Link     `xml:"link"`
}

type Feed struct {
	XMLName   xml.Name `xml:"feed"`
	Xmlns     string   `xml:"xmlns,attr"`
	XmlnsDc   string   `xml:"xmlns:dc,attr"`
	XmlnsOpds string   `xml:"xmlns:opds,attr"`
	Title     string   `xml:"title"`
	ID        string   `xml:"id"`
	Updated   string   `xml:"updated"`
	Links     []Link   `xml:"link"`
	Entries   []Entry  `xml:"entry"`
}

// NewFeed creates an empty feed with the given id and a self link
func NewFeed(id, title, self, kind string, updated time.Time) *Feed {
	return &Feed{
		Xmlns:     "http://www.w3.org/2005/Atom",
		XmlnsDc:   "http://purl.org/dc/terms/",
		XmlnsOpds: "http://opds-spec.org/2010/catalog",
		Title:     title,
		ID:        id,
		Updated:   updated.UTC().Format(timeFormat),
		Links: []Link{
			{Rel: "self", Type: kind, Href: self},
			{Rel: "start", Type: NavigationType, Href: "/opds"},
		},
	}
}

// NavigationEntry links to another feed
func NavigationEntry(title, id, content, href string, updated time.Time) Entry {
	return Entry{
		Title:   title,
		ID:      id,
		Updated: updated.UTC().Format(timeFormat),
		Content: Content{Type: "text", Text: content},
		Links:   []Link{{Rel: "subsection", Type: AcquisitionType, Href: href}},
	}
}

// BookEntry describes a catalog book with its cover and a buy link back to
// the storefront detail page
func BookEntry(b models.Book, updated time.Time) Entry {
	e := Entry{
		Title:   b.Title,
		ID:      "bookstall:book:" + b.ID,
		Updated: updated.UTC().Format(timeFormat),
		Content: Content{Type: "text", Text: summary(b)},
	}
	if b.Author != "" {
		e.Authors = append(e.Authors, Author{Name: b.Author})
	}
	if b.Year > 0 {
		e.Issued = fmt.Sprintf("%d", b.Year)
	}
	e.Categories = append(e.Categories, Category{Term: string(b.Category), Label: string(b.Category)})
	for _, t := range b.Tags {
		e.Categories = append(e.Categories, Category{Term: t, Label: t})
	}

	cover := "/covers/" + url.PathEscape(b.ID)
	e.Links = append(e.Links,
		Link{Rel: relImage, Type: "image/jpeg", Href: cover},
		Link{Rel: relThumbnail, Type: "image/jpeg", Href: cover},
		Link{
			Rel:   relBuy,
			Type:  "text/html",
			Href:  "/?" + url.Values{"book": {b.ID}}.Encode(),
			Title: "Buy",
			Price: &Price{CurrencyCode: "USD", Value: b.Price.StringFixed(2)},
		},
	)
	return e
}

func summary(b models.Book) string {
	parts := []string{}
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	parts = append(parts, fmt.Sprintf("Rating: %.1f", b.Rating))
	return strings.Join(parts, "\n")
}

// Encode writes the feed with an XML header
func (f *Feed) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode feed %s: %w", f.ID, err)
	}
	return nil
}
