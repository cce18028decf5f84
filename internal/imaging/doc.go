// Package imaging implements the avatar export pipeline: load a source image,
// rotate and crop it on a padded canvas, and encode the result as JPEG.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangles are half-open:
// Min is inclusive, Max is exclusive.
//
// # Padded Canvas
//
// A w×h source is drawn centered on a square canvas of side 2 × max(w, h).
// Any rotation of the source about the canvas center fits on that canvas.
// A CropRegion is expressed relative to the source's top-left corner as drawn
// on the canvas, so Transform shifts it by ((S-w)/2, (S-h)/2) before reading.
// Rotation angles are in degrees, clockwise, and wrap at 360.
//
// # Ownership
//
// A Raster owns a single RGBA buffer. Each pipeline run decodes a fresh
// Raster, derives one output Raster from it and hands the encoded bytes to
// the caller; nothing is cached or shared between runs.
//
// # Error Handling
//
// Failures are typed so callers can tell them apart with errors.As:
//   - *DecodeError: unreachable reference, unsupported, corrupt or oversized bytes
//   - *CropOutOfBoundsError: region with no area or outside the canvas
//   - *EncodingError: the final JPEG stream could not be produced
package imaging
