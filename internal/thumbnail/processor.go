package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"

	"github.com/disintegration/imaging"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/models"
)

// Processor is the image processing capability used to build thumbnails.
// Every image returned by Load, Crop or Resize is handed back to Release.
type Processor interface {
	Load(ctx context.Context, res models.Resource) (image.Image, error)
	Crop(img image.Image, r image.Rectangle) image.Image
	Resize(img image.Image, width int) image.Image
	Encode(img image.Image, quality int) ([]byte, error)
	Release(img image.Image)
}

// PathFunc locates the file backing a resource.
type PathFunc func(res models.Resource) string

// Imaging is a Processor built on github.com/disintegration/imaging.
type Imaging struct {
	path PathFunc
}

// NewImaging creates an Imaging processor reading resources through path.
func NewImaging(path PathFunc) *Imaging {
	return &Imaging{path: path}
}

// Load decodes the resource file. A missing file is reported as
// apperr.ErrResourceUnavailable.
func (p *Imaging) Load(ctx context.Context, res models.Resource) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(p.path(res), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("thumbnail: load %s: %w", res.ID, apperr.ErrResourceUnavailable)
		}
		return nil, fmt.Errorf("thumbnail: load %s: %w", res.ID, err)
	}
	return img, nil
}

func (p *Imaging) Crop(img image.Image, r image.Rectangle) image.Image {
	return imaging.Crop(img, r)
}

// Resize scales img to width, keeping the aspect ratio.
func (p *Imaging) Resize(img image.Image, width int) image.Image {
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

func (p *Imaging) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("thumbnail: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Release is a no-op; decoded images are garbage collected.
func (p *Imaging) Release(image.Image) {}

// CenterSquare returns the largest square centered in bounds. The longer
// side is trimmed equally on both ends.
func CenterSquare(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if w == h {
		return bounds
	}
	if w > h {
		off := (w - h) / 2
		return image.Rect(bounds.Min.X+off, bounds.Min.Y, bounds.Min.X+off+h, bounds.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(bounds.Min.X, bounds.Min.Y+off, bounds.Max.X, bounds.Min.Y+off+w)
}
