package bizcard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// stubCapturer returns the side name as image bytes, or fails for failSide.
type stubCapturer struct {
	failSide Side
	mu       sync.Mutex
	opts     []CaptureOptions
}

func (s *stubCapturer) Capture(ctx context.Context, f *Face, opts CaptureOptions) ([]byte, error) {
	s.mu.Lock()
	s.opts = append(s.opts, opts)
	s.mu.Unlock()
	if f.Side == s.failSide {
		return nil, errors.New("renderer crashed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(f.Side), nil
}

func TestCaptureFaces(t *testing.T) {
	front, back, err := RenderBoth(mustRenderer(t, Modern), sampleData())
	if err != nil {
		t.Fatal(err)
	}
	c := &stubCapturer{}
	images, err := CaptureFaces(context.Background(), c, front, back, DefaultCaptureOptions())
	if err != nil {
		t.Fatal(err)
	}
	if string(images.Front) != "front" || string(images.Back) != "back" {
		t.Errorf("images = %q, %q", images.Front, images.Back)
	}
	if len(c.opts) != 2 || c.opts[0] != DefaultCaptureOptions() {
		t.Errorf("capture options = %+v", c.opts)
	}
}

func TestCaptureFaces_EitherFailureAborts(t *testing.T) {
	front, back, err := RenderBoth(mustRenderer(t, Classic), sampleData())
	if err != nil {
		t.Fatal(err)
	}
	for _, side := range []Side{Front, Back} {
		images, err := CaptureFaces(context.Background(), &stubCapturer{failSide: side}, front, back, DefaultCaptureOptions())
		if images != nil {
			t.Errorf("%s failure returned partial images", side)
		}
		if !errors.Is(err, ErrCaptureFailure) {
			t.Fatalf("%s failure error = %v, want ErrCaptureFailure", side, err)
		}
		var ce *CaptureError
		if !errors.As(err, &ce) {
			t.Fatalf("error %T is not a *CaptureError", err)
		}
		// The other capture may be cancelled first, but never reported.
		if ce.Side != side && !errors.Is(ce.Err, context.Canceled) {
			t.Errorf("CaptureError.Side = %s, want %s", ce.Side, side)
		}
	}
}

func TestFaceImages(t *testing.T) {
	var nilImages *FaceImages
	if nilImages.Get(Front) != nil || nilImages.DataURI(Back) != "" {
		t.Error("nil FaceImages returned data")
	}

	fi := &FaceImages{Front: []byte{0x89, 'P', 'N', 'G'}}
	if uri := fi.DataURI(Front); !strings.HasPrefix(uri, "data:image/png;base64,iVBORw") {
		t.Errorf("DataURI(front) = %q", uri)
	}
	if fi.DataURI(Back) != "" {
		t.Error("DataURI(back) is not empty")
	}
}

func TestCaptureOptionsResolved(t *testing.T) {
	o, err := CaptureOptions{BackgroundColor: "FFFFFF"}.resolved()
	if err != nil {
		t.Fatal(err)
	}
	if o.PixelRatio != DefaultPixelRatio || o.BackgroundColor != "#ffffff" {
		t.Errorf("resolved = %+v", o)
	}
	if _, err := (CaptureOptions{BackgroundColor: "#fff"}).resolved(); !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("short backdrop error = %v", err)
	}
	for _, ratio := range []float64{MaxPixelRatio + 0.5, 1000} {
		o, err := CaptureOptions{PixelRatio: ratio}.resolved()
		if err != nil || o.PixelRatio != MaxPixelRatio {
			t.Errorf("resolved(PixelRatio %v) = %v, %v; want %v", ratio, o.PixelRatio, err, MaxPixelRatio)
		}
	}
}
