package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestTransform_Identity(t *testing.T) {
	src := createGradientImage(30, 20)
	r := NewRaster(src)

	out, err := Transform(r, 0, CropRegion{X: 0, Y: 0, Width: 30, Height: 20}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if out.Width() != 30 || out.Height() != 20 {
		t.Fatalf("dimensions: got %dx%d, want 30x20", out.Width(), out.Height())
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			if got, want := rgbaAt(out.Image(), x, y), src.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTransform_BottomRightQuadrant(t *testing.T) {
	r := NewRaster(createPatternImage(100, 100))

	// Source is centered at (50,50) on the 200x200 canvas.
	out, err := Transform(r, 0, CropRegion{X: 50, Y: 50, Width: 50, Height: 50}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if out.Width() != 50 || out.Height() != 50 {
		t.Fatalf("dimensions: got %dx%d, want 50x50", out.Width(), out.Height())
	}
	white := color.RGBA{255, 255, 255, 255}
	for _, p := range []image.Point{{0, 0}, {25, 25}, {49, 49}} {
		if got := rgbaAt(out.Image(), p.X, p.Y); got != white {
			t.Errorf("pixel %v: got %v, want white", p, got)
		}
	}
}

func TestTransform_Rotate180Opposite(t *testing.T) {
	src := createGradientImage(100, 100)
	r := NewRaster(src)
	region := CropRegion{X: 50, Y: 50, Width: 50, Height: 50}

	out, err := Transform(r, 180, region, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// A half turn maps the bottom-right quadrant onto the top-left one, point-mirrored.
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if got, want := rgbaAt(out.Image(), x, y), src.RGBAAt(49-x, 49-y); got != want {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTransform_Rotate180Pattern(t *testing.T) {
	r := NewRaster(createPatternImage(100, 100))

	out, err := Transform(r, 180, CropRegion{X: 50, Y: 50, Width: 50, Height: 50}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if got := rgbaAt(out.Image(), 25, 25); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("center pixel: got %v, want red", got)
	}
}

func TestTransform_Rotate90Clockwise(t *testing.T) {
	// 4x2 source on an 8x8 canvas at offset (2,3); the 2x4 quarter turn lands at (3,2).
	src := createGradientImage(4, 2)
	r := NewRaster(src)

	out, err := Transform(r, 90, CropRegion{X: 1, Y: -1, Width: 2, Height: 4}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if out.Width() != 2 || out.Height() != 4 {
		t.Fatalf("dimensions: got %dx%d, want 2x4", out.Width(), out.Height())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			if got, want := rgbaAt(out.Image(), x, y), src.RGBAAt(y, 1-x); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTransform_AngleWraps(t *testing.T) {
	r := NewRaster(createGradientImage(16, 10))
	region := CropRegion{X: -3, Y: -3, Width: 20, Height: 16}

	tests := []struct {
		name string
		a, b float64
	}{
		{"360 is 0", 360, 0},
		{"-90 is 270", -90, 270},
		{"450 is 90", 450, 90},
		{"-180 is 180", -180, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outA, err := Transform(r, tt.a, region, TransformOptions{})
			if err != nil {
				t.Fatalf("Transform(%v) failed: %v", tt.a, err)
			}
			outB, err := Transform(r, tt.b, region, TransformOptions{})
			if err != nil {
				t.Fatalf("Transform(%v) failed: %v", tt.b, err)
			}
			for y := 0; y < region.Height; y++ {
				for x := 0; x < region.Width; x++ {
					if rgbaAt(outA.Image(), x, y) != rgbaAt(outB.Image(), x, y) {
						t.Fatalf("pixel (%d,%d) differs between %v and %v", x, y, tt.a, tt.b)
					}
				}
			}
		})
	}
}

func TestTransform_ArbitraryAngle(t *testing.T) {
	r := NewRaster(createInMemoryImage(40, 40, color.RGBA{255, 0, 0, 255}))

	out, err := Transform(r, 45, CropRegion{X: 10, Y: 10, Width: 20, Height: 20}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if out.Width() != 20 || out.Height() != 20 {
		t.Fatalf("dimensions: got %dx%d, want 20x20", out.Width(), out.Height())
	}
	// The center of the canvas is covered by the source at every angle.
	c := rgbaAt(out.Image(), 10, 10)
	if c.R < 250 || c.G > 5 || c.B > 5 || c.A < 250 {
		t.Errorf("center pixel: got %v, want red", c)
	}
}

func TestTransform_ArbitraryAngleLeavesCornersEmpty(t *testing.T) {
	r := NewRaster(createInMemoryImage(40, 40, color.RGBA{255, 0, 0, 255}))

	// The source's own top-left corner pixel is rotated away at 45 degrees.
	out, err := Transform(r, 45, CropRegion{X: 0, Y: 0, Width: 40, Height: 40}, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if a := rgbaAt(out.Image(), 0, 0).A; a != 0 {
		t.Errorf("corner alpha: got %d, want 0", a)
	}
}

func TestTransform_OutputDimensionsFollowRegion(t *testing.T) {
	r := NewRaster(createGradientImage(60, 30))
	angles := []float64{0, 17, 90, 133.5, 180, 270, 359}
	regions := []CropRegion{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 5, Y: 5, Width: 30, Height: 20},
		{X: -30, Y: -45, Width: 120, Height: 120},
	}

	for _, angle := range angles {
		for _, region := range regions {
			out, err := Transform(r, angle, region, TransformOptions{})
			if err != nil {
				t.Fatalf("Transform(%v, %+v) failed: %v", angle, region, err)
			}
			if out.Width() != region.Width || out.Height() != region.Height {
				t.Errorf("Transform(%v, %+v): got %dx%d", angle, region, out.Width(), out.Height())
			}
		}
	}
}

func TestTransform_FullCanvasNeverClips(t *testing.T) {
	r := NewRaster(createInMemoryImage(30, 10, color.RGBA{0, 0, 255, 255}))
	side := PaddedSide(30, 10)
	offX, offY := PaddedOffset(30, 10)
	full := CropRegion{X: -offX, Y: -offY, Width: side, Height: side}

	for _, angle := range []float64{0, 30, 45, 90, 120, 180, 225, 270, 315} {
		out, err := Transform(r, angle, full, TransformOptions{})
		if err != nil {
			t.Fatalf("Transform(%v) failed: %v", angle, err)
		}

		// The rotated source never touches the canvas border.
		for i := 0; i < side; i++ {
			for _, p := range []image.Point{{i, 0}, {i, side - 1}, {0, i}, {side - 1, i}} {
				if a := rgbaAt(out.Image(), p.X, p.Y).A; a != 0 {
					t.Fatalf("angle %v: border pixel %v has alpha %d", angle, p, a)
				}
			}
		}
	}
}

func TestTransform_OutOfBounds(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255}))

	tests := []struct {
		name   string
		region CropRegion
	}{
		{"left of canvas", CropRegion{X: -51, Y: 0, Width: 10, Height: 10}},
		{"above canvas", CropRegion{X: 0, Y: -51, Width: 10, Height: 10}},
		{"right of canvas", CropRegion{X: 100, Y: 0, Width: 51, Height: 10}},
		{"below canvas", CropRegion{X: 0, Y: 100, Width: 10, Height: 51}},
		{"larger than canvas", CropRegion{X: -50, Y: -50, Width: 201, Height: 200}},
		{"zero width", CropRegion{X: 0, Y: 0, Width: 0, Height: 10}},
		{"negative height", CropRegion{X: 0, Y: 0, Width: 10, Height: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transform(r, 0, tt.region, TransformOptions{})
			if err == nil {
				t.Fatal("Transform should fail for out-of-bounds region")
			}
			var oob *CropOutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("error type: got %T, want *CropOutOfBoundsError", err)
			}
			if oob.Canvas != image.Rect(0, 0, 200, 200) {
				t.Errorf("Canvas: got %v, want (0,0)-(200,200)", oob.Canvas)
			}
			if out != nil {
				t.Error("no output expected alongside an error")
			}
		})
	}
}

func TestTransform_Clamp(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255}))

	// One column to the left of the canvas.
	out, err := Transform(r, 0, CropRegion{X: -51, Y: 0, Width: 60, Height: 10}, TransformOptions{Clamp: true})
	if err != nil {
		t.Fatalf("Transform with clamp failed: %v", err)
	}

	if out.Width() != 60 || out.Height() != 10 {
		t.Fatalf("dimensions: got %dx%d, want 60x10", out.Width(), out.Height())
	}
	if a := rgbaAt(out.Image(), 0, 0).A; a != 0 {
		t.Errorf("pixel outside canvas: alpha %d, want 0", a)
	}
	if a := rgbaAt(out.Image(), 1, 0).A; a != 0 {
		t.Errorf("canvas padding: alpha %d, want 0", a)
	}
	if got := rgbaAt(out.Image(), 51, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("first source column: got %v, want red", got)
	}
}

func TestTransform_ClampStillRejectsEmptyRegion(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))

	_, err := Transform(r, 0, CropRegion{Width: 0, Height: 0}, TransformOptions{Clamp: true})
	var oob *CropOutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("error: got %v, want *CropOutOfBoundsError", err)
	}
}

func TestTransform_ClampRejectsUnreadableRegion(t *testing.T) {
	// 10x10 source, padded canvas 20x20, offset (5,5).
	r := NewRaster(createInMemoryImage(10, 10, color.White))

	tests := []struct {
		name   string
		region CropRegion
	}{
		{"huge extents", CropRegion{X: 0, Y: 0, Width: math.MaxInt, Height: math.MaxInt}},
		{"large extents", CropRegion{X: 0, Y: 0, Width: 100000, Height: 100000}},
		{"wider than canvas", CropRegion{X: -5, Y: -5, Width: 21, Height: 10}},
		{"taller than canvas", CropRegion{X: -5, Y: -5, Width: 10, Height: 21}},
		{"right of canvas", CropRegion{X: 15, Y: 0, Width: 10, Height: 10}},
		{"above canvas", CropRegion{X: 0, Y: -15, Width: 10, Height: 10}},
		{"far away", CropRegion{X: math.MinInt / 2, Y: math.MaxInt / 2, Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transform(r, 0, tt.region, TransformOptions{Clamp: true})
			var oob *CropOutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("error: got %v, want *CropOutOfBoundsError", err)
			}
			if out != nil {
				t.Error("no output expected alongside an error")
			}
		})
	}
}

func TestTransform_ClampAcceptsFullCanvasSize(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))

	// Canvas-sized but shifted: half of it hangs off the canvas.
	out, err := Transform(r, 0, CropRegion{X: 0, Y: 0, Width: 20, Height: 20}, TransformOptions{Clamp: true})
	if err != nil {
		t.Fatalf("Transform with clamp failed: %v", err)
	}
	if out.Width() != 20 || out.Height() != 20 {
		t.Fatalf("dimensions: got %dx%d, want 20x20", out.Width(), out.Height())
	}
	if got := rgbaAt(out.Image(), 0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("source pixel: got %v, want white", got)
	}
	if a := rgbaAt(out.Image(), 19, 19).A; a != 0 {
		t.Errorf("off-canvas pixel: alpha %d, want 0", a)
	}
}

// opaqueBounds returns the smallest rectangle holding every non-transparent pixel.
func opaqueBounds(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			r = r.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return r
}

func TestTransform_OddEdgesAgreeAcrossRotationPaths(t *testing.T) {
	// 5x3 source: padded canvas 10x10, drawn at the floored offset (2,3).
	r := NewRaster(createInMemoryImage(5, 3, color.RGBA{0, 255, 0, 255}))
	full := CropRegion{X: -2, Y: -3, Width: 10, Height: 10}

	tests := []struct {
		name        string
		exact, near float64
		want        image.Rectangle
	}{
		{"90", 90, 90.001, image.Rect(3, 2, 6, 7)},
		{"180", 180, 180.001, image.Rect(2, 3, 7, 6)},
		{"270", 270, 269.999, image.Rect(3, 2, 6, 7)},
		{"0", 0, 0.001, image.Rect(2, 3, 7, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exact, err := Transform(r, tt.exact, full, TransformOptions{})
			if err != nil {
				t.Fatalf("Transform(%v) failed: %v", tt.exact, err)
			}
			near, err := Transform(r, tt.near, full, TransformOptions{})
			if err != nil {
				t.Fatalf("Transform(%v) failed: %v", tt.near, err)
			}

			if got := opaqueBounds(exact.Image()); got != tt.want {
				t.Errorf("angle %v: opaque bounds %v, want %v", tt.exact, got, tt.want)
			}
			if got := opaqueBounds(near.Image()); got != tt.want {
				t.Errorf("angle %v: opaque bounds %v, want %v", tt.near, got, tt.want)
			}
		})
	}
}

func TestTransform_Deterministic(t *testing.T) {
	r := NewRaster(createGradientImage(32, 24))
	region := CropRegion{X: 4, Y: 2, Width: 20, Height: 20}

	a, err := Transform(r, 33, region, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	b, err := Transform(r, 33, region, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if string(a.Image().Pix) != string(b.Image().Pix) {
		t.Error("identical inputs produced different pixels")
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
		{720.5, 0.5},
	}

	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); got != tt.want {
			t.Errorf("NormalizeAngle(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCanvasRect(t *testing.T) {
	got := CanvasRect(100, 100, CropRegion{X: 50, Y: 50, Width: 50, Height: 50})
	if want := image.Rect(100, 100, 150, 150); got != want {
		t.Errorf("CanvasRect: got %v, want %v", got, want)
	}
}
