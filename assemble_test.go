package bizcard

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubPrinter records the document it was asked to print.
type stubPrinter struct {
	html string
	page *PageConfig
	out  []byte
	err  error
}

func (p *stubPrinter) PrintHTML(ctx context.Context, html string, pg *PageConfig) ([]byte, error) {
	p.html, p.page = html, pg
	if p.err != nil {
		return nil, p.err
	}
	if p.out != nil {
		return p.out, nil
	}
	return []byte("%PDF-1.4 stub"), nil
}

func TestDocumentHTML_Native(t *testing.T) {
	html, err := DocumentHTML(sampleData(), Modern, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<title>business-card-modern-a4.pdf</title>",
		"@page { size: A4; margin: 0; }",
		"width: 85.6mm; height: 53.98mm;",
		`data-variant="modern"`,
		`class="slot" data-side="front"`,
		`class="slot" data-side="back"`,
		"Jane Doe",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(html, "<img src=\"data:") {
		t.Error("native document embeds captures")
	}
	if strings.Index(html, `data-side="front"`) > strings.Index(html, `data-side="back"`) {
		t.Error("back slot precedes front slot")
	}
}

func TestDocumentHTML_Captured(t *testing.T) {
	images := &FaceImages{Front: []byte("front-png"), Back: []byte("back-png")}
	html, err := DocumentHTML(sampleData(), Classic, images)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(html, `<img src="data:image/png;base64,`); n != 2 {
		t.Errorf("embedded images = %d, want 2", n)
	}
	if strings.Contains(html, "Jane Doe") {
		t.Error("captured document also renders native faces")
	}
}

func TestDocumentHTML_PartialCapture(t *testing.T) {
	html, err := DocumentHTML(sampleData(), Classic, &FaceImages{Front: []byte("front-png")})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(html, "<img src="); n != 1 {
		t.Errorf("embedded images = %d, want 1", n)
	}
	if !strings.Contains(html, "Jane Doe") {
		t.Error("back face not rendered natively")
	}
}

func TestDocumentHTML_Errors(t *testing.T) {
	if _, err := DocumentHTML(sampleData(), "retro", nil); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("unknown variant error = %v", err)
	}
	d := sampleData()
	d.ThemeColor = "#12"
	if _, err := DocumentHTML(d, Classic, nil); !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("bad theme error = %v", err)
	}
}

func TestAssemble(t *testing.T) {
	p := &stubPrinter{}
	doc, err := NewAssembler(p).Assemble(context.Background(), sampleData(), Modern, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Filename != "business-card-modern-a4.pdf" || doc.Variant != Modern {
		t.Errorf("doc = %s (%s)", doc.Filename, doc.Variant)
	}
	if string(doc.Bytes()) != "%PDF-1.4 stub" {
		t.Errorf("doc bytes = %q", doc.Bytes())
	}
	pg := p.page.resolved()
	if pg.Size != A4 || pg.Margin != (Margin{}) || !pg.PrintBackground {
		t.Errorf("export page = %+v", pg)
	}
}

func TestAssemble_WithPage(t *testing.T) {
	p := &stubPrinter{}
	page := &PageConfig{Size: Letter}
	if _, err := NewAssembler(p, WithPage(page)).Assemble(context.Background(), sampleData(), Classic, nil); err != nil {
		t.Fatal(err)
	}
	if p.page != page {
		t.Error("WithPage was not used")
	}
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name    string
		printer *stubPrinter
		variant Variant
	}{
		{"printer failure", &stubPrinter{err: errors.New("tab crashed")}, Classic},
		{"empty output", &stubPrinter{out: []byte{}}, Classic},
		{"unknown variant", &stubPrinter{}, "retro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewAssembler(tt.printer).Assemble(context.Background(), sampleData(), tt.variant, nil)
			if doc != nil {
				t.Error("returned a document")
			}
			if !errors.Is(err, ErrAssemblyFailure) {
				t.Errorf("error = %v, want ErrAssemblyFailure", err)
			}
		})
	}
}
