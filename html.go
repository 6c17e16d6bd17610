package bizcard

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
)

// HTMLOptions controls how a [Face] is projected to HTML.
//
// Every layout coordinate is multiplied by Scale and written in Unit. The
// face is then shifted by OffsetX/OffsetY (in Unit) inside its container.
type HTMLOptions struct {
	Unit    string // "px" or "mm"
	Scale   float64
	OffsetX float64
	OffsetY float64

	// ID is the id attribute of the face root. Defaults to "card".
	ID string
}

// ScreenOptions renders a face at its native 580x340 pixel size.
func ScreenOptions() HTMLOptions {
	return HTMLOptions{Unit: "px", Scale: 1}
}

// PrintOptions fits a face into the physical card size in millimetres.
// The face keeps its aspect ratio and covers the card, centred, the same
// way an embedded capture is fitted. The overflow is clipped by the slot.
func PrintOptions(f *Face) HTMLOptions {
	k := math.Max(CardWidthMM/f.Width, CardHeightMM/f.Height)
	return HTMLOptions{
		Unit:    "mm",
		Scale:   k,
		OffsetX: (CardWidthMM - f.Width*k) / 2,
		OffsetY: (CardHeightMM - f.Height*k) / 2,
	}
}

func (o HTMLOptions) resolved() HTMLOptions {
	if o.Unit == "" {
		o.Unit = "px"
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.ID == "" {
		o.ID = "card"
	}
	return o
}

type faceView struct {
	ID       string
	Side     Side
	Variant  Variant
	Style    template.CSS
	Elements []elementView
}

type elementView struct {
	Kind  string
	Role  string
	Style template.CSS
	Runs  []runView
	Icon  Icon
	Glyph template.HTML
	Src   template.URL
}

type runView struct {
	Text  string
	Style template.CSS
}

var faceTemplate = template.Must(template.New("face").Parse(
	`<div id="{{.ID}}" class="bizcard bizcard-{{.Variant}} bizcard-{{.Side}}" data-side="{{.Side}}" data-variant="{{.Variant}}" style="{{.Style}}">` +
		`{{range .Elements}}` +
		`{{if eq .Kind "text"}}<div class="el el-text" data-role="{{.Role}}" style="{{.Style}}">{{range .Runs}}<span style="{{.Style}}">{{.Text}}</span>{{end}}</div>` +
		`{{else if eq .Kind "icon"}}<div class="el el-icon" data-role="{{.Role}}" data-icon="{{.Icon}}" style="{{.Style}}">{{.Glyph}}</div>` +
		`{{else if eq .Kind "image"}}<img class="el el-image" data-role="{{.Role}}" src="{{.Src}}" alt="" style="{{.Style}}">` +
		`{{else}}<div class="el el-box" data-role="{{.Role}}" style="{{.Style}}"></div>{{end}}` +
		`{{end}}</div>`))

// FaceHTML projects f to an HTML fragment. Colors and fonts come from the
// renderers, which validate every user supplied color, so styles are
// emitted as trusted CSS. Text is escaped.
func FaceHTML(f *Face, opts HTMLOptions) (template.HTML, error) {
	o := opts.resolved()
	css := newStyler(o)

	root := css.decl("position", "absolute").
		decl("left", formatLength(o.OffsetX, o.Unit)).
		decl("top", formatLength(o.OffsetY, o.Unit)).
		decl("width", css.length(f.Width)).
		decl("height", css.length(f.Height)).
		decl("overflow", "hidden").
		decl("box-sizing", "border-box").
		decl("font-family", f.FontFamily)
	if f.CornerRadius > 0 {
		root.decl("border-radius", css.length(f.CornerRadius))
	}
	if f.Border.Width > 0 {
		root.decl("border", css.length(f.Border.Width)+" solid "+f.Border.Color)
	}
	root.paint(f.Background)

	view := faceView{ID: o.ID, Side: f.Side, Variant: f.Variant, Style: root.css()}
	for _, e := range f.Elements {
		ev, ok := elementHTML(e, o)
		if ok {
			view.Elements = append(view.Elements, ev)
		}
	}

	var buf bytes.Buffer
	if err := faceTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("bizcard: rendering face html: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func elementHTML(e Element, o HTMLOptions) (elementView, bool) {
	st := newStyler(o)
	st.decl("position", "absolute").
		decl("left", st.length(e.X)).
		decl("top", st.length(e.Y)).
		decl("width", st.length(e.W)).
		decl("height", st.length(e.H)).
		decl("box-sizing", "border-box")
	if a := e.Alpha(); a < 1 {
		st.decl("opacity", formatNumber(a))
	}
	if e.Radius > 0 {
		st.decl("border-radius", st.length(e.Radius))
	}
	if e.Stroke.Width > 0 {
		st.decl("border", st.length(e.Stroke.Width)+" solid "+e.Stroke.Color)
	}
	st.paint(e.Fill)

	ev := elementView{Kind: e.Kind.String(), Role: e.Role}
	switch e.Kind {
	case KindText:
		st.font(e.Font, e.H).decl("text-align", alignCSS(e.Align))
		for _, r := range e.Runs {
			rs := newStyler(o).decl("color", r.Color)
			if r.Bold {
				rs.decl("font-weight", "700")
			}
			ev.Runs = append(ev.Runs, runView{Text: r.Text, Style: rs.css()})
		}
	case KindIcon:
		st.decl("display", "flex").
			decl("align-items", "center").
			decl("justify-content", "center").
			decl("color", e.Color)
		size := math.Min(e.W, e.H)
		if e.Stroke.Width > 0 || !e.Fill.IsZero() {
			size *= 0.5
		} else {
			size *= 0.9
		}
		ev.Icon = e.Icon
		ev.Glyph = iconSVG(e.Icon, size*o.Scale, o.Unit)
	case KindImage:
		src, ok := safeImageURL(e.Src)
		if !ok {
			return elementView{}, false
		}
		st.decl("object-fit", "cover")
		ev.Src = src
	}
	ev.Style = st.css()
	return ev, true
}

// safeImageURL admits http(s) URLs and inline raster images only.
func safeImageURL(s string) (template.URL, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return template.URL(s), true
	case strings.HasPrefix(lower, "data:image/png;base64,"),
		strings.HasPrefix(lower, "data:image/jpeg;base64,"),
		strings.HasPrefix(lower, "data:image/gif;base64,"),
		strings.HasPrefix(lower, "data:image/webp;base64,"):
		return template.URL(s), true
	}
	return "", false
}

func alignCSS(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

// styler accumulates CSS declarations in layout units.
type styler struct {
	o     HTMLOptions
	decls []string
}

func newStyler(o HTMLOptions) *styler { return &styler{o: o} }

func (s *styler) decl(prop, value string) *styler {
	s.decls = append(s.decls, prop+":"+value)
	return s
}

func (s *styler) length(v float64) string {
	return formatLength(v*s.o.Scale, s.o.Unit)
}

func (s *styler) css() template.CSS {
	return template.CSS(strings.Join(s.decls, ";"))
}

func (s *styler) paint(p Paint) *styler {
	switch {
	case p.Gradient != nil:
		stops := make([]string, 0, len(p.Gradient.Stops))
		for _, st := range p.Gradient.Stops {
			stops = append(stops, st.Color+" "+formatNumber(st.Offset*100)+"%")
		}
		s.decl("background", fmt.Sprintf("linear-gradient(%sdeg, %s)",
			formatNumber(p.Gradient.Angle), strings.Join(stops, ", ")))
	case p.Stripes != nil:
		gap, end := s.length(p.Stripes.Gap), s.length(p.Stripes.Gap+p.Stripes.Width)
		s.decl("background", fmt.Sprintf(
			"repeating-linear-gradient(%sdeg, transparent, transparent %s, %s %s, %s %s)",
			formatNumber(p.Stripes.Angle), gap, p.Stripes.Color, gap, p.Stripes.Color, end))
	case p.Color != "":
		s.decl("background", p.Color)
	}
	return s
}

// font writes the text style. A box no taller than 1.6 lines is a single
// vertically centred line; taller boxes wrap.
func (s *styler) font(f Font, boxH float64) *styler {
	s.decl("font-size", s.length(f.Size))
	if f.Family != "" {
		s.decl("font-family", f.Family)
	}
	if f.Bold {
		s.decl("font-weight", "700")
	}
	if f.Italic {
		s.decl("font-style", "italic")
	}
	if f.LetterSpacing != 0 {
		s.decl("letter-spacing", s.length(f.LetterSpacing))
	}
	if boxH <= f.Size*1.6 {
		s.decl("line-height", s.length(boxH)).decl("white-space", "nowrap")
	} else {
		s.decl("line-height", "1.4").decl("white-space", "normal")
	}
	return s
}

func formatLength(v float64, unit string) string {
	return formatNumber(v) + unit
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// PreviewPage wraps a face in a standalone page at screen size. It is the
// document loaded for browser captures and served by the preview endpoint.
func PreviewPage(f *Face) (string, error) {
	frag, err := FaceHTML(f, ScreenOptions())
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
	fmt.Fprintf(&b, `<title>%s %s</title>`, f.Variant, f.Side)
	b.WriteString(`<style>html,body{margin:0;padding:0;background:transparent}`)
	fmt.Fprintf(&b, `.stage{position:relative;width:%dpx;height:%dpx}</style>`,
		int(math.Ceil(f.Width)), int(math.Ceil(f.Height)))
	b.WriteString(`</head><body><div class="stage">`)
	b.WriteString(string(frag))
	b.WriteString(`</div></body></html>`)
	return b.String(), nil
}

// CardPageHTML wraps a face in a page sized to the physical card, for
// printing a single face on [CardPage] without margins.
func CardPageHTML(f *Face) (string, error) {
	frag, err := FaceHTML(f, PrintOptions(f))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
	fmt.Fprintf(&b, `<title>%s %s</title>`, f.Variant, f.Side)
	b.WriteString(`<style>@page{margin:0}html,body{margin:0;padding:0}`)
	fmt.Fprintf(&b, `.card{position:relative;overflow:hidden;width:%smm;height:%smm}</style>`,
		formatNumber(CardWidthMM), formatNumber(CardHeightMM))
	b.WriteString(`</head><body><div class="card">`)
	b.WriteString(string(frag))
	b.WriteString(`</div></body></html>`)
	return b.String(), nil
}
