package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lucasb-eyer/go-colorful"
)

// OutputMimeType is the fixed type of every EncodedImage.
const OutputMimeType = "image/jpeg"

// DefaultMimeType is assumed for a data URL whose type cannot be determined.
const DefaultMimeType = OutputMimeType

// jpegQuality matches the default a browser canvas uses for image/jpeg.
const jpegQuality = 92

// EncodedImage is the exported avatar: a JPEG byte stream plus its
// dimensions. Ownership passes to the caller.
type EncodedImage struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// DataURL returns a portable, self-describing reference to the image,
// suitable for an on-screen preview or for DecodeReferenceToBytes.
func (e *EncodedImage) DataURL() string {
	return formatDataURL(e.MimeType, e.Data)
}

// File is a named byte buffer ready for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Encoder serializes rasters with a fixed lossy compression.
type Encoder struct {
	background color.Color
}

// NewEncoder returns an Encoder that flattens transparency onto background.
// A nil background means black, which is what a canvas JPEG export produces.
func NewEncoder(background color.Color) *Encoder {
	if background == nil {
		background = color.Black
	}
	return &Encoder{background: background}
}

// ParseBackground parses a "#rrggbb" or "#rgb" color. An empty string is black.
func ParseBackground(hex string) (color.Color, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.Black, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Encode compresses r as JPEG.
func (e *Encoder) Encode(r *Raster) (*EncodedImage, error) {
	if r == nil || r.img == nil {
		return nil, &EncodingError{Err: errors.New("no surface to encode")}
	}
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return nil, &EncodingError{Err: fmt.Errorf("surface has no pixels (%dx%d)", w, h)}
	}

	var src image.Image = r.img
	if !r.img.Opaque() {
		src = imaging.Overlay(imaging.New(w, h, e.background), r.img, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, &EncodingError{Err: err}
	}

	return &EncodedImage{
		Data:     buf.Bytes(),
		MimeType: OutputMimeType,
		Width:    w,
		Height:   h,
	}, nil
}

// DecodeReferenceToBytes reverses a data URL into a named byte buffer.
//
// The content type comes from the URL header. When the header names none it
// is sniffed from the payload, and when that does not look like an image it
// falls back to DefaultMimeType. A malformed payload fails with *DecodeError.
func DecodeReferenceToBytes(ref, fileName string) (*File, error) {
	mediaType, data, err := parseDataURL(ref)
	if err != nil {
		return nil, &DecodeError{Source: describeRef(ref), Err: err}
	}

	if mediaType == "" {
		if sniffed := mimetype.Detect(data); strings.HasPrefix(sniffed.String(), "image/") {
			mediaType = sniffed.String()
		} else {
			mediaType = DefaultMimeType
		}
	}

	return &File{
		Name:        fileName,
		ContentType: mediaType,
		Data:        data,
	}, nil
}
