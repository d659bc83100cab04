package opds

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"bookstall/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type decodedFeed struct {
	Title   string `xml:"title"`
	ID      string `xml:"id"`
	Updated string `xml:"updated"`
	Entries []struct {
		Title string `xml:"title"`
		ID    string `xml:"id"`
		Links []struct {
			Rel  string `xml:"rel,attr"`
			Href string `xml:"href,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func TestBookEntry(t *testing.T) {
	b := models.Book{
		ID: "b 1", Title: "Byte Code", Author: "Bob", Category: "Tech",
		Price: decimal.RequireFromString("29.9"), Rating: 4.5, Year: 2022,
		Tags: []string{"go"}, Description: "About bytes.",
	}
	e := BookEntry(b, stamp)

	assert.Equal(t, "bookstall:book:b 1", e.ID)
	assert.Equal(t, "2025-03-01T12:00:00Z", e.Updated)
	assert.Equal(t, "2022", e.Issued)
	require.Len(t, e.Authors, 1)
	assert.Equal(t, "Bob", e.Authors[0].Name)
	assert.Equal(t, []Category{{Term: "Tech", Label: "Tech"}, {Term: "go", Label: "go"}}, e.Categories)
	assert.Equal(t, "About bytes.\nRating: 4.5", e.Content.Text)

	require.Len(t, e.Links, 3)
	assert.Equal(t, "/covers/b%201", e.Links[0].Href)
	buy := e.Links[2]
	assert.Equal(t, relBuy, buy.Rel)
	assert.Equal(t, "/?book=b+1", buy.Href)
	require.NotNil(t, buy.Price)
	assert.Equal(t, "29.90", buy.Price.Value)
}

func TestBookEntryWithoutYearOrAuthor(t *testing.T) {
	e := BookEntry(models.Book{ID: "x", Title: "Anon", Category: "Misc"}, stamp)
	assert.Empty(t, e.Issued)
	assert.Empty(t, e.Authors)
}

func TestFeedEncode(t *testing.T) {
	f := NewFeed("bookstall:books", `Tom & "Jerry"`, "/opds/books", AcquisitionType, stamp)
	f.Entries = append(f.Entries, BookEntry(models.Book{ID: "A", Title: "<b>Apple</b>", Price: decimal.NewFromInt(5)}, stamp))

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	out := buf.String()

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))
	assert.Contains(t, out, `xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, out, `<opds:price currencycode="USD">5.00</opds:price>`)
	assert.Contains(t, out, "&lt;b&gt;Apple&lt;/b&gt;")
	assert.NotContains(t, out, "<b>Apple")

	var got decodedFeed
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, `Tom & "Jerry"`, got.Title)
	assert.Equal(t, "2025-03-01T12:00:00Z", got.Updated)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "<b>Apple</b>", got.Entries[0].Title)
}

func TestNavigationEntry(t *testing.T) {
	e := NavigationEntry("Tech", "bookstall:category:Tech", "Books in Tech", "/opds/books?cat=Tech", stamp)
	require.Len(t, e.Links, 1)
	assert.Equal(t, "subsection", e.Links[0].Rel)
	assert.Equal(t, AcquisitionType, e.Links[0].Type)
}
