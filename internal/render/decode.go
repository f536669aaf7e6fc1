package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// pageLoader decodes page images through the shared cache.
type pageLoader struct {
	cache *imagecache.Cache
}

// load decodes the page image and applies its clockwise rotation. The cache is
// cleared first when admitting the image would exceed the budget.
func (l *pageLoader) load(page commonModels.Page) (image.Image, error) {
	key := page.ImagePath
	if l.cache != nil {
		if img, ok := l.cache.Get(key); ok {
			return rotate(img, page.Rotation), nil
		}
	}

	size, err := estimateFile(page.ImagePath)
	if err != nil {
		return nil, err
	}
	if l.cache != nil && !l.cache.CanAdmit(size) {
		l.cache.Clear()
	}

	img, err := imaging.Open(page.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", page.ImagePath, err)
	}
	if l.cache != nil {
		l.cache.Admit(key, img, size)
	}
	return rotate(img, page.Rotation), nil
}

func (l *pageLoader) release() {
	if l.cache != nil {
		l.cache.Clear()
	}
}

func estimateFile(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("read header %s: %w", path, err)
	}
	return imagecache.Estimate(cfg.Width, cfg.Height, imagecache.BytesPerPixel(cfg.ColorModel)), nil
}

// rotate turns img clockwise by degrees.
func rotate(img image.Image, degrees int) image.Image {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return imaging.Rotate(img, -float64(degrees), color.White)
	}
}

// flatten composes img onto a white background so alpha never leaks into
// formats without transparency.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
