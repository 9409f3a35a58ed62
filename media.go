package postline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const jpegQuality = 80

// processImage decodes an image from src, resizes it to maxWidth when wider,
// and encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, name string, maxWidth int) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename: name,
		Width:    w,
		Height:   h,
		Size:     buf.Len(),
	}, buf.Bytes(), nil
}

// MediaCache serves post images from a directory, downscaled once and kept in memory.
type MediaCache struct {
	mu       sync.Mutex
	dir      string
	maxWidth int
	images   map[string]mediaEntry
}

type mediaEntry struct {
	meta Image
	data []byte
}

// NewMediaCache creates a MediaCache for dir.
func NewMediaCache(dir string, maxWidth int) *MediaCache {
	return &MediaCache{dir: dir, maxWidth: maxWidth, images: make(map[string]mediaEntry)}
}

// Get returns the processed image called name. Names that try to leave the
// media directory are reported as ErrNotFound.
func (m *MediaCache) Get(name string) (Image, []byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return Image{}, nil, ErrNotFound
	}
	m.mu.Lock()
	e, ok := m.images[name]
	m.mu.Unlock()
	if ok {
		return e.meta, e.data, nil
	}

	f, err := os.Open(filepath.Join(m.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return Image{}, nil, ErrNotFound
	}
	if err != nil {
		return Image{}, nil, err
	}
	defer f.Close()

	meta, data, err := processImage(f, name, m.maxWidth)
	if err != nil {
		return Image{}, nil, fmt.Errorf("postline: media %s: %w", name, err)
	}
	m.mu.Lock()
	m.images[name] = mediaEntry{meta: meta, data: data}
	m.mu.Unlock()
	return meta, data, nil
}

func (a *App) handleMedia(c echo.Context) error {
	_, data, err := a.Media.Get(c.Param("name"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
