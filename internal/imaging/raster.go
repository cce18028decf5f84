package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Raster is a decoded, in-memory pixel grid owned by a single pipeline run.
//
// The backing buffer is always a private *image.RGBA anchored at (0,0). Callers
// must not mutate the buffer returned by Image once the raster has been handed
// to another stage.
type Raster struct {
	img *image.RGBA
}

// NewRaster copies img into a freshly allocated RGBA buffer anchored at (0,0).
//
// The copy detaches the raster from decoder-owned memory (YCbCr planes,
// paletted GIF frames) so each stage works on one explicit buffer.
func NewRaster(img image.Image) *Raster {
	rgba := clone.AsRGBA(img)
	if rgba.Rect.Min != (image.Point{}) {
		rgba.Rect = rgba.Rect.Sub(rgba.Rect.Min)
	}
	return &Raster{img: rgba}
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Image exposes the backing buffer.
func (r *Raster) Image() *image.RGBA { return r.img }

// PaddedSide returns the side length of the square working canvas for a w×h
// source: twice the longer edge, large enough to hold any rotation of the
// source without clipping.
func PaddedSide(w, h int) int {
	if w > h {
		return 2 * w
	}
	return 2 * h
}

// PaddedOffset returns where the top-left corner of a w×h source lands when
// the source is centered on its padded canvas.
func PaddedOffset(w, h int) (int, int) {
	side := PaddedSide(w, h)
	return (side - w) / 2, (side - h) / 2
}

// GeometryResult describes a source and the padded canvas it is cropped from.
type GeometryResult struct {
	// Width is the source width in pixels.
	Width int `json:"width"`

	// Height is the source height in pixels.
	Height int `json:"height"`

	// PaddedSide is the side of the square working canvas.
	PaddedSide int `json:"padded_side"`

	// OffsetX and OffsetY locate the source's top-left corner on the canvas.
	OffsetX int `json:"offset_x"`
	OffsetY int `json:"offset_y"`
}

// Geometry reports the canvas geometry a crop selection surface needs.
func Geometry(r *Raster) *GeometryResult {
	w, h := r.Width(), r.Height()
	offX, offY := PaddedOffset(w, h)
	return &GeometryResult{
		Width:      w,
		Height:     h,
		PaddedSide: PaddedSide(w, h),
		OffsetX:    offX,
		OffsetY:    offY,
	}
}
