package bizcard

import (
	"context"
	"encoding/base64"

	"golang.org/x/sync/errgroup"
)

// Capture defaults. A pixel ratio of 3 keeps text sharp when the card is
// printed at 85.6mm wide. Larger ratios are clamped to MaxPixelRatio.
const (
	DefaultPixelRatio      = 3.0
	MaxPixelRatio          = 8.0
	DefaultCaptureBackdrop = "#ffffff"
)

// CaptureOptions controls face rasterization.
type CaptureOptions struct {
	PixelRatio      float64
	BackgroundColor string
}

// DefaultCaptureOptions returns the options used by exports.
func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{PixelRatio: DefaultPixelRatio, BackgroundColor: DefaultCaptureBackdrop}
}

func (o CaptureOptions) resolved() (CaptureOptions, error) {
	switch {
	case o.PixelRatio <= 0:
		o.PixelRatio = DefaultPixelRatio
	case o.PixelRatio > MaxPixelRatio:
		o.PixelRatio = MaxPixelRatio
	}
	if o.BackgroundColor == "" {
		o.BackgroundColor = DefaultCaptureBackdrop
	}
	c, err := ParseHex(o.BackgroundColor)
	if err != nil {
		return CaptureOptions{}, err
	}
	o.BackgroundColor = c.Hex()
	return o, nil
}

// Capturer rasterizes a face to PNG.
type Capturer interface {
	Capture(ctx context.Context, f *Face, opts CaptureOptions) ([]byte, error)
}

// FaceImages holds the PNG captures of both faces of a card.
type FaceImages struct {
	Front []byte
	Back  []byte
}

// Get returns the capture of side.
func (fi *FaceImages) Get(side Side) []byte {
	if fi == nil {
		return nil
	}
	if side == Back {
		return fi.Back
	}
	return fi.Front
}

// DataURI returns the capture of side as an inline PNG URL, or "" when the
// side was not captured.
func (fi *FaceImages) DataURI(side Side) string {
	b := fi.Get(side)
	if len(b) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

// CaptureFaces captures front and back concurrently. The first failure
// cancels the other capture and is returned as a [*CaptureError].
func CaptureFaces(ctx context.Context, c Capturer, front, back *Face, opts CaptureOptions) (*FaceImages, error) {
	var out FaceImages
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.Capture(ctx, front, opts)
		if err != nil {
			return &CaptureError{Side: Front, Err: err}
		}
		out.Front = b
		return nil
	})
	g.Go(func() error {
		b, err := c.Capture(ctx, back, opts)
		if err != nil {
			return &CaptureError{Side: Back, Err: err}
		}
		out.Back = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
