package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// CropRegion is a rectangle picked by the crop selection surface.
//
// X and Y are measured from the top-left corner of the source image as drawn
// on the rotation-padded canvas; Transform adds the padded offset to reach
// canvas coordinates. Width and Height are the exact output dimensions.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TransformOptions tunes Transform.
type TransformOptions struct {
	// Clamp clips an out-of-canvas read instead of failing. Pixels outside
	// the canvas are left transparent and the output keeps the requested size.
	Clamp bool
}

// NormalizeAngle maps any angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// CanvasRect maps region into the coordinate space of the padded canvas of a
// w×h source.
func CanvasRect(w, h int, region CropRegion) image.Rectangle {
	offX, offY := PaddedOffset(w, h)
	x, y := region.X+offX, region.Y+offY
	return image.Rect(x, y, x+region.Width, y+region.Height)
}

// Transform rotates src by angle degrees clockwise about its own center on the
// padded canvas and returns exactly the pixels under region.
//
// Algorithm:
//
//  1. Allocate a square canvas of side S = 2 × max(w, h).
//  2. Draw src centered on the canvas (offsets floored) and rotate it about
//     its center. By construction no rotation clips the source.
//  3. Read the region, shifted by the padded offset, from the canvas.
//  4. Copy it into a new surface of exactly Width × Height at (0,0).
//
// Quarter turns are exact pixel permutations. Other angles are resampled
// bilinearly. The result is deterministic for identical inputs.
//
// A region with no area, or one that leaves the canvas while opts.Clamp is
// unset, fails with *CropOutOfBoundsError. With opts.Clamp set the region
// must still overlap the canvas and be no larger than it.
func Transform(src *Raster, angle float64, region CropRegion, opts TransformOptions) (*Raster, error) {
	w, h := src.Width(), src.Height()
	side := PaddedSide(w, h)
	canvasBounds := image.Rect(0, 0, side, side)
	rect := CanvasRect(w, h, region)

	switch {
	case region.Width <= 0 || region.Height <= 0:
		return nil, &CropOutOfBoundsError{Region: rect, Canvas: canvasBounds}
	case region.Width > side || region.Height > side:
		return nil, &CropOutOfBoundsError{Region: rect, Canvas: canvasBounds}
	case !opts.Clamp && !rect.In(canvasBounds):
		return nil, &CropOutOfBoundsError{Region: rect, Canvas: canvasBounds}
	case opts.Clamp && !rect.Overlaps(canvasBounds):
		return nil, &CropOutOfBoundsError{Region: rect, Canvas: canvasBounds}
	}

	canvas := rotateOnCanvas(src.Image(), side, NormalizeAngle(angle))

	out := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))
	// draw.Draw clips to the canvas; whatever falls outside stays transparent.
	draw.Draw(out, out.Bounds(), canvas, rect.Min, draw.Src)
	return &Raster{img: out}, nil
}

// rotateOnCanvas returns a side×side canvas holding img rotated clockwise by
// angle (already normalized) about the center of img as drawn on the canvas.
func rotateOnCanvas(img *image.RGBA, side int, angle float64) image.Image {
	var turned image.Image
	switch angle {
	case 0:
		turned = img
	case 90:
		// imaging turns counter-clockwise.
		turned = imaging.Rotate270(img)
	case 180:
		turned = imaging.Rotate180(img)
	case 270:
		turned = imaging.Rotate90(img)
	default:
		// Pivot on the center of the drawn source, not the canvas, so odd
		// edges land on the same pixels as the quarter turns below.
		dc := gg.NewContext(side, side)
		w, h := img.Rect.Dx(), img.Rect.Dy()
		offX, offY := PaddedOffset(w, h)
		dc.RotateAbout(gg.Radians(angle), float64(offX)+float64(w)/2, float64(offY)+float64(h)/2)
		dc.DrawImage(img, offX, offY)
		return dc.Image()
	}

	canvas := imaging.New(side, side, image.Transparent)
	b := turned.Bounds()
	at := image.Pt((side-b.Dx())/2, (side-b.Dy())/2)
	return imaging.Paste(canvas, turned, at)
}
