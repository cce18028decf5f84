package imaging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// CropRequest is one user action: a source, the chosen rotation and the
// selected region.
type CropRequest struct {
	Source   string
	Rotation float64
	Region   CropRegion
}

// Pipeline runs Loader → Transform → Encoder for one request at a time.
//
// A Pipeline holds only configuration. Each Run owns its rasters from decode
// to encode and drops them on return, so concurrent runs share nothing.
type Pipeline struct {
	loader    *Loader
	encoder   *Encoder
	transform TransformOptions
	log       *logrus.Entry
}

// NewPipeline wires the three stages. A nil logger uses the logrus standard logger.
func NewPipeline(loader *Loader, encoder *Encoder, opts TransformOptions, log *logrus.Entry) *Pipeline {
	if loader == nil {
		loader = NewLoader()
	}
	if encoder == nil {
		encoder = NewEncoder(nil)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pipeline{
		loader:    loader,
		encoder:   encoder,
		transform: opts,
		log:       log.WithField("component", "pipeline"),
	}
}

// Loader returns the pipeline's loader.
func (p *Pipeline) Loader() *Loader { return p.loader }

// Run executes the pipeline. Errors are *DecodeError, *CropOutOfBoundsError or
// *EncodingError; no partial output is ever returned alongside one.
func (p *Pipeline) Run(ctx context.Context, req CropRequest) (*EncodedImage, error) {
	start := time.Now()
	log := p.log.WithFields(logrus.Fields{
		"source":   describeRef(req.Source),
		"rotation": req.Rotation,
		"region":   req.Region,
	})

	src, err := p.loader.Load(ctx, req.Source)
	if err != nil {
		log.WithError(err).Warn("Failed to load source image")
		return nil, err
	}

	cropped, err := Transform(src, req.Rotation, req.Region, p.transform)
	if err != nil {
		log.WithError(err).Warn("Rejected crop region")
		return nil, err
	}

	encoded, err := p.encoder.Encode(cropped)
	if err != nil {
		log.WithError(err).Error("Failed to encode avatar")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"source_size": [2]int{src.Width(), src.Height()},
		"bytes":       len(encoded.Data),
		"elapsed":     time.Since(start).String(),
	}).Debug("Cropped avatar")
	return encoded, nil
}
