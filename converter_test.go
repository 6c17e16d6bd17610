package bizcard_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"os/exec"
	"testing"

	bizcard "github.com/porticus-lab/go-bizcard"
	"github.com/porticus-lab/go-bizcard/internal/pdfcheck"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T) *bizcard.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := bizcard.NewConverter(bizcard.WithNoSandbox())
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

// staticFetcher serves fixed records.
type staticFetcher struct{}

func (staticFetcher) GetStaff(ctx context.Context, userID string) (*bizcard.AgentRecord, error) {
	return &bizcard.AgentRecord{
		Name:    bizcard.Some("Jane Doe"),
		Email:   bizcard.Some("jane@acme.com"),
		Phone:   bizcard.Some("+971 50 123 4567"),
		JobType: bizcard.Some("Senior Broker"),
	}, nil
}

func (staticFetcher) CurrentUserAllData(ctx context.Context) (*bizcard.AllData, error) {
	return &bizcard.AllData{CompanySettings: &bizcard.CompanyRecord{
		CompanyName: bizcard.Some("Acme Realty Group"),
		CRMURL:      bizcard.Some("crm.acme.com"),
	}}, nil
}

func assertA4(t *testing.T, data []byte) *pdfcheck.Report {
	t.Helper()
	if !isPDF(data) {
		t.Fatal("output is not a valid PDF")
	}
	r, err := pdfcheck.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(r.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(r.Pages))
	}
	pg := r.Pages[0]
	if math.Abs(pg.WidthMM()-210) > 1 || math.Abs(pg.HeightMM()-297) > 1 {
		t.Errorf("page = %.1f x %.1f mm, want A4", pg.WidthMM(), pg.HeightMM())
	}
	return r
}

func TestPrintHTML_Basic(t *testing.T) {
	c := newTestConverter(t)

	data, err := c.PrintHTML(context.Background(), "<h1>Hello World</h1>", nil)
	if err != nil {
		t.Fatalf("PrintHTML: %v", err)
	}
	assertA4(t, data)
}

func TestCapture_Face(t *testing.T) {
	c := newTestConverter(t)

	d := bizcard.Normalize(bizcard.NormalizeInput{UserID: "1", ThemeColor: "#0f766e"})
	f, err := bizcard.Render(d, bizcard.Front, bizcard.Modern)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Capture(context.Background(), f, bizcard.DefaultCaptureOptions())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decoding capture: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 1740 || h != 1020 {
		t.Errorf("capture = %dx%d, want 1740x1020", w, h)
	}
}

func TestExport_Captured(t *testing.T) {
	c := newTestConverter(t)

	g := bizcard.NewGenerator(staticFetcher{}, c, bizcard.WithCapturer(c))
	doc, err := g.GenerateAndExport(context.Background(), "42", "#1a3a5f", bizcard.Classic)
	if err != nil {
		t.Fatalf("GenerateAndExport: %v", err)
	}
	if doc.Filename != "business-card-classic-a4.pdf" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	r := assertA4(t, doc.Bytes())
	if n := len(r.VisibleImages()); n != 2 {
		t.Errorf("embedded images = %d, want 2", n)
	}
	if r.Pages[0].Images < 2 {
		t.Errorf("page images = %d, want both faces", r.Pages[0].Images)
	}
}

func TestExport_Native(t *testing.T) {
	c := newTestConverter(t)

	g := bizcard.NewGenerator(staticFetcher{}, c)
	for _, v := range bizcard.Variants {
		doc, err := g.GenerateAndExport(context.Background(), "42", "", v)
		if err != nil {
			t.Fatalf("GenerateAndExport(%s): %v", v, err)
		}
		r := assertA4(t, doc.Bytes())
		if len(r.Fonts) == 0 {
			t.Errorf("%s: native export embeds no fonts", v)
		}
	}
}

func TestConverter_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := bizcard.NewConverter(bizcard.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConverter_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := bizcard.NewConverter(bizcard.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = c.PrintHTML(context.Background(), "<p>test</p>", nil)
	if !errors.Is(err, bizcard.ErrClosed) {
		t.Fatalf("PrintHTML error = %v, want ErrClosed", err)
	}

	f, err := bizcard.Render(bizcard.Normalize(bizcard.NormalizeInput{}), bizcard.Back, bizcard.Classic)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Capture(context.Background(), f, bizcard.DefaultCaptureOptions())
	if !errors.Is(err, bizcard.ErrClosed) {
		t.Fatalf("Capture error = %v, want ErrClosed", err)
	}
}
