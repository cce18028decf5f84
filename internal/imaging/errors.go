package imaging

import (
	"fmt"
	"image"
)

// DecodeError reports a source reference that could not be turned into a Raster:
// the reference was unreachable, the bytes were not a supported image encoding,
// or a data URL payload was malformed.
type DecodeError struct {
	// Source is a short, log-safe description of the reference (never a full data URL).
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CropOutOfBoundsError reports a crop region that does not fit the rotation-padded
// canvas once the padded offset has been applied, or that has no area.
type CropOutOfBoundsError struct {
	// Region is the requested rectangle in canvas coordinates.
	Region image.Rectangle
	// Canvas is the padded canvas, always anchored at (0,0).
	Canvas image.Rectangle
}

func (e *CropOutOfBoundsError) Error() string {
	if e.Region.Empty() {
		return fmt.Sprintf("crop region %v has no area", e.Region)
	}
	return fmt.Sprintf("crop region %v outside padded canvas %v", e.Region, e.Canvas)
}

// EncodingError reports a failure producing the final byte stream.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode avatar: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
