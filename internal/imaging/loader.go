package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMaxSourceBytes bounds how much of a source reference is read.
const DefaultMaxSourceBytes = 20 << 20

// DefaultMaxSourceEdge bounds the longest edge of a decoded source in pixels.
// The padded canvas is four times the square of this edge.
const DefaultMaxSourceEdge = 4096

// DefaultFetchTimeout bounds a single network fetch.
const DefaultFetchTimeout = 15 * time.Second

var supportedSourceTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Loader turns a source reference into a Raster.
//
// A reference is one of:
//   - a data URL ("data:image/png;base64,..."), the encoding a local file
//     selection produces
//   - an http:// or https:// URL
//   - a local file path
//
// Every call decodes fresh; there is no cache.
type Loader struct {
	client   *http.Client
	maxBytes int64
	maxEdge  int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the client used for network references.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithMaxSourceBytes caps the size of a source in bytes. Non-positive values
// keep the default.
func WithMaxSourceBytes(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithMaxSourceEdge caps the width and height of a source in pixels.
// Non-positive values keep the default.
func WithMaxSourceEdge(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxEdge = n
		}
	}
}

// WithFetchTimeout sets the timeout of the default HTTP client.
func WithFetchTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.client = &http.Client{Timeout: d}
		}
	}
}

// NewLoader creates a Loader with the given options applied over the defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		maxBytes: DefaultMaxSourceBytes,
		maxEdge:  DefaultMaxSourceEdge,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves ref, sniffs its content and decodes it.
//
// All failures are returned as *DecodeError. ctx bounds network fetches only;
// decoding itself is not interruptible.
func (l *Loader) Load(ctx context.Context, ref string) (*Raster, error) {
	source := describeRef(ref)

	data, err := l.read(ctx, ref)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}

	img, err := l.decodeBytes(data)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return NewRaster(img), nil
}

func (l *Loader) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.TrimSpace(ref) == "":
		return nil, errors.New("empty source reference")
	case isDataURL(ref):
		_, data, err := parseDataURL(ref)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > l.maxBytes {
			return nil, fmt.Errorf("source exceeds %d bytes", l.maxBytes)
		}
		return data, nil
	case hasPrefixFold(ref, "http://"), hasPrefixFold(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		return l.readLimited(f)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	req.Header.Set("Accept", strings.Join(supportedSourceTypes, ", "))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image: unexpected status %s", resp.Status)
	}
	return l.readLimited(resp.Body)
}

// readLimited reads at most maxBytes; a longer stream is an error rather
// than a silently truncated image.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("source exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

// decodeBytes checks the declared dimensions from the image header before
// decoding, so an oversized source never gets a pixel buffer.
func (l *Loader) decodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("source is empty")
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), supportedSourceTypes...) {
		return nil, fmt.Errorf("unsupported image type %s", mtype.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width > l.maxEdge || cfg.Height > l.maxEdge {
		return nil, fmt.Errorf("image is %dx%d, larger than %d pixels per edge", cfg.Width, cfg.Height, l.maxEdge)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}
	return img, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
