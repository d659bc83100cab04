package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bookstall/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleJSON = `[
  {"id": "x1", "title": "First", "author": "Ann", "category": "Fiction", "price": 12.5, "rating": 4.1, "year": 2020, "tags": ["a"]},
  {"id": "x2", "title": "Second", "author": "Bob", "category": "Tech", "price": "30.00", "rating": 3.5},
  {"id": "x3", "title": "Third", "author": "Cy", "category": "Fiction", "price": 7}
]`

const sampleYAML = `- id: y1
  title: Yaml Book
  author: Yan
  category: Science
  price: 19.95
  rating: 4.2
  year: 2019
  tags: [space, stars]
- id: y2
  title: Other
  author: Oz
  category: Kids
  price: 5
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	c, err := Load(writeFile(t, t.TempDir(), "books.json", sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []models.Category{"Fiction", "Tech"}, c.Categories())
	assert.True(t, decimal.NewFromInt(30).Equal(c.MaxPrice()))

	b, ok := c.Get("x1")
	require.True(t, ok)
	assert.Equal(t, "First", b.Title)
	assert.True(t, decimal.RequireFromString("12.5").Equal(b.Price))

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(writeFile(t, t.TempDir(), "books.yml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	b, _ := c.Get("y1")
	assert.Equal(t, []string{"space", "stars"}, b.Tags)
	assert.Equal(t, 2019, b.Year)
	assert.True(t, decimal.RequireFromString("19.95").Equal(b.Price))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "broken.json", `[{"id": `))
	assert.Error(t, err)
}

func TestNewValidates(t *testing.T) {
	valid := models.Book{ID: "a", Category: "Fiction", Price: decimal.NewFromInt(1)}
	tests := []struct {
		name  string
		books []models.Book
	}{
		{"empty id", []models.Book{{ID: " ", Category: "Fiction"}}},
		{"duplicate id", []models.Book{valid, valid}},
		{"negative price", []models.Book{{ID: "n", Category: "Fiction", Price: decimal.NewFromInt(-1)}}},
		{"no category", []models.Book{{ID: "c", Price: decimal.NewFromInt(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.books)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBook))
		})
	}
}

func TestBooksReturnsCopy(t *testing.T) {
	c := Default()
	books := c.Books()
	books[0].Title = "changed"
	assert.NotEqual(t, "changed", c.Books()[0].Title)
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 12, c.Len())
	assert.Len(t, c.Categories(), 5)
	assert.True(t, decimal.RequireFromString("49.50").Equal(c.MaxPrice()))
	assert.Equal(t, c.Fingerprint(), Default().Fingerprint())
}

func TestFingerprintTracksContent(t *testing.T) {
	a, err := New([]models.Book{{ID: "a", Category: "X", Price: decimal.NewFromInt(1)}})
	require.NoError(t, err)
	b, err := New([]models.Book{{ID: "a", Category: "X", Price: decimal.NewFromInt(2)}})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "books.json", sampleJSON)

	var mu sync.Mutex
	var got []*Catalog
	w, err := NewWatcher(path, func(c *Catalog) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	}, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// unrelated files in the directory are ignored
	writeFile(t, dir, "notes.txt", "hello")
	writeFile(t, dir, "books.json", `[{"id": "z", "title": "Only", "category": "Kids", "price": 1}]`)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Len() == 1
	}, 3*time.Second, 20*time.Millisecond)

	// a broken file is never delivered
	writeFile(t, dir, "books.json", `not json`)
	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	for _, c := range got {
		assert.Equal(t, 1, c.Len())
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "books.json"), nil, nil)
	require.NoError(t, err)
	w.Stop()
}
