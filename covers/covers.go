// Package covers turns the cover images referenced by catalog books into
// uniformly sized JPEG thumbnails, cached on disk.
package covers

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"bookstall/models"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "github.com/jbuchbinder/gopnm"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultHeight is the thumbnail height when none is configured
const DefaultHeight = 300

var (
	// ErrNoCover is returned for books without a usable cover image
	ErrNoCover = errors.New("book has no cover")
	// ErrNotImage is returned when the cover file is not an image
	ErrNotImage = errors.New("cover is not an image")
)

// Thumbnailer resizes covers found under SourceDir into CacheDir
type Thumbnailer struct {
	SourceDir string
	CacheDir  string
	Height    int
	Logger    *zap.Logger
}

// Thumbnail returns the path of the cached thumbnail for b, generating it on
// first use. A changed source file or height produces a new cache entry.
func (t *Thumbnailer) Thumbnail(b models.Book) (string, error) {
	src, err := t.sourcePath(b)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoCover, b.ID)
		}
		return "", fmt.Errorf("stat cover %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoCover, b.ID)
	}

	height := t.height()
	cachePath := filepath.Join(t.CacheDir, cacheName(src, info.ModTime().UnixNano(), height))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	mtype, err := mimetype.DetectFile(src)
	if err != nil {
		return "", fmt.Errorf("detect cover type %s: %w", src, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: %s is %s", ErrNotImage, src, mtype.String())
	}

	img, err := decode(src)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(t.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cover cache: %w", err)
	}
	if err := save(imaging.Resize(img, 0, height, imaging.Lanczos), cachePath); err != nil {
		return "", err
	}

	t.logger().Debug("cover thumbnail created",
		zap.String("book", b.ID),
		zap.String("path", cachePath),
		zap.Int("height", height))
	return cachePath, nil
}

func (t *Thumbnailer) sourcePath(b models.Book) (string, error) {
	rel := strings.TrimSpace(b.Cover)
	if rel == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCover, b.ID)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: absolute cover path for %s", ErrNoCover, b.ID)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: cover of %s escapes the covers directory", ErrNoCover, b.ID)
	}
	return filepath.Join(t.SourceDir, clean), nil
}

func (t *Thumbnailer) height() int {
	if t.Height <= 0 {
		return DefaultHeight
	}
	return t.Height
}

func (t *Thumbnailer) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

func cacheName(path string, modTime int64, height int) string {
	key := fmt.Sprintf("%s|%d|%d", path, modTime, height)
	return fmt.Sprintf("%016x.jpg", xxhash.Sum64String(key))
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cover %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode cover %s: %w", path, err)
	}
	return img, nil
}

// save encodes img into a temporary file next to path and renames it into
// place, so concurrent readers only ever see complete thumbnails.
func save(img image.Image, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".thumb-*.tmp")
	if err != nil {
		return fmt.Errorf("create thumbnail %s: %w", path, err)
	}
	tmp := f.Name()

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode thumbnail %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close thumbnail %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store thumbnail %s: %w", path, err)
	}
	return nil
}
