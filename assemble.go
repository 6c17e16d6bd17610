package bizcard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
)

// Printer turns an HTML document into PDF bytes. [*Converter] is the
// production implementation.
type Printer interface {
	PrintHTML(ctx context.Context, html string, pg *PageConfig) ([]byte, error)
}

// ExportPage is the page every export is printed on: A4, no printer
// margins, backgrounds on. Spacing is part of the document itself.
func ExportPage() *PageConfig {
	return &PageConfig{
		Size:              A4,
		NoMargin:          true,
		Scale:             1,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// AssemblerOption configures an [Assembler].
type AssemblerOption func(*Assembler)

// WithAssemblerLogger sets the logger for assembly events.
func WithAssemblerLogger(l *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPage overrides [ExportPage].
func WithPage(pg *PageConfig) AssemblerOption {
	return func(a *Assembler) {
		if pg != nil {
			a.page = pg
		}
	}
}

// Assembler builds the printable export of a card: one A4 page with the
// front face above the back face, each at the physical card size.
type Assembler struct {
	printer Printer
	page    *PageConfig
	logger  *slog.Logger
}

// NewAssembler returns an Assembler printing through p.
func NewAssembler(p Printer, opts ...AssemblerOption) *Assembler {
	a := &Assembler{printer: p, page: ExportPage(), logger: discardLogger()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble renders d in variant v and prints it. Captured images, when
// given, are embedded in place of the native faces; a side missing from
// images falls back to its native rendering. Every failure is returned as
// an [*AssemblyError].
func (a *Assembler) Assemble(ctx context.Context, d CardData, v Variant, images *FaceImages) (*Document, error) {
	html, err := DocumentHTML(d, v, images)
	if err != nil {
		return nil, &AssemblyError{Err: err}
	}
	data, err := a.printer.PrintHTML(ctx, html, a.page)
	if err != nil {
		return nil, &AssemblyError{Err: err}
	}
	if len(data) == 0 {
		return nil, &AssemblyError{Err: errors.New("printer returned an empty document")}
	}
	doc := NewDocument(data, v)
	a.logger.Info("document_assembled",
		slog.String("variant", string(v)),
		slog.String("filename", doc.Filename),
		slog.Bool("captured", images != nil),
		slog.Int("bytes", doc.Len()),
	)
	return doc, nil
}

type slotView struct {
	Side  Side
	Image template.URL
	Face  template.HTML
}

type documentView struct {
	Title   string
	CardW   string
	CardH   string
	Slots   []slotView
	Variant Variant
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; }
body { width: 210mm; height: 297mm; box-sizing: border-box; padding: 40pt; background: #ffffff;
  display: flex; flex-direction: column; align-items: center; justify-content: center; gap: 40pt;
  -webkit-print-color-adjust: exact; print-color-adjust: exact; }
.slot { position: relative; width: {{.CardW}}; height: {{.CardH}}; overflow: hidden;
  border: 1px solid #e5e7eb; border-radius: 6px; background: #ffffff; box-sizing: content-box; }
.slot img { display: block; width: 100%; height: 100%; object-fit: cover; }
</style>
</head>
<body data-variant="{{.Variant}}">
{{range .Slots}}<div class="slot" data-side="{{.Side}}">{{if .Image}}<img src="{{.Image}}" alt="{{.Side}}">{{else}}{{.Face}}{{end}}</div>
{{end}}</body>
</html>
`))

// DocumentHTML returns the export document for d in variant v. It is what
// [Assembler.Assemble] prints.
func DocumentHTML(d CardData, v Variant, images *FaceImages) (string, error) {
	r, err := NewRenderer(v)
	if err != nil {
		return "", err
	}
	if err := d.Normalize().Validate(); err != nil {
		return "", err
	}
	view := documentView{
		Title:   ExportFilename(v),
		CardW:   formatLength(CardWidthMM, "mm"),
		CardH:   formatLength(CardHeightMM, "mm"),
		Variant: v,
	}
	for _, side := range []Side{Front, Back} {
		slot := slotView{Side: side}
		if uri := images.DataURI(side); uri != "" {
			slot.Image = template.URL(uri)
		} else {
			f, err := r.Render(d, side)
			if err != nil {
				return "", err
			}
			if slot.Face, err = FaceHTML(f, PrintOptions(f)); err != nil {
				return "", err
			}
		}
		view.Slots = append(view.Slots, slot)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("bizcard: rendering document html: %w", err)
	}
	return buf.String(), nil
}
