package covers

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bookstall/models"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newThumbnailer(t *testing.T) *Thumbnailer {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	return &Thumbnailer{SourceDir: src, CacheDir: filepath.Join(root, "cache"), Height: 60}
}

func TestThumbnailResizesAndCaches(t *testing.T) {
	th := newThumbnailer(t)
	writePNG(t, filepath.Join(th.SourceDir, "b1.png"), 100, 200)
	book := models.Book{ID: "b1", Cover: "b1.png"}

	path, err := th.Thumbnail(book)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(path))

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dy())
	assert.Equal(t, 30, img.Bounds().Dx())

	again, err := th.Thumbnail(book)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	th.Height = 40
	other, err := th.Thumbnail(book)
	require.NoError(t, err)
	assert.NotEqual(t, path, other, "height is part of the cache key")
}

func TestConcurrentThumbnailsAreComplete(t *testing.T) {
	th := newThumbnailer(t)
	writePNG(t, filepath.Join(th.SourceDir, "b1.png"), 120, 240)
	book := models.Book{ID: "b1", Cover: "b1.png"}

	var wg sync.WaitGroup
	paths := make([]string, 8)
	errs := make([]error, 8)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = th.Thumbnail(book)
		}(i)
	}
	wg.Wait()

	for i := range paths {
		require.NoError(t, errs[i])
		assert.Equal(t, paths[0], paths[i])
	}
	img, err := imaging.Open(paths[0])
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dy())

	left, err := os.ReadDir(th.CacheDir)
	require.NoError(t, err)
	require.Len(t, left, 1, "no temporary files are left behind")
	assert.Equal(t, filepath.Base(paths[0]), left[0].Name())
}

func TestThumbnailErrors(t *testing.T) {
	th := newThumbnailer(t)
	require.NoError(t, os.WriteFile(filepath.Join(th.SourceDir, "notes.png"), []byte("plain text, not a picture"), 0644))

	tests := []struct {
		name  string
		cover string
		want  error
	}{
		{"no cover", "", ErrNoCover},
		{"missing file", "absent.png", ErrNoCover},
		{"escapes dir", "../secret.png", ErrNoCover},
		{"absolute", "/etc/passwd", ErrNoCover},
		{"not an image", "notes.png", ErrNotImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := th.Thumbnail(models.Book{ID: "x", Cover: tt.cover})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCacheNameIsStable(t *testing.T) {
	a := cacheName("/covers/a.png", 10, 300)
	assert.Equal(t, a, cacheName("/covers/a.png", 10, 300))
	assert.NotEqual(t, a, cacheName("/covers/a.png", 11, 300))
	assert.Len(t, a, len("0123456789abcdef.jpg"))
}

func TestPlaceholderIsDeterministicPNG(t *testing.T) {
	a, err := Placeholder("b001")
	require.NoError(t, err)
	b, err := Placeholder("b001")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	img, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	side := placeholderGrid*placeholderSquare + placeholderBorder*2
	assert.Equal(t, side, img.Bounds().Dx())

	// pattern is mirrored around the middle column
	for y := 0; y < side; y++ {
		for x := 0; x < side/2; x++ {
			assert.Equal(t, img.At(x, y), img.At(side-1-x, y))
		}
	}

	other, err := Placeholder("b002")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}
