package bizcard

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"
)

// RasterCapturer draws faces directly to PNG without a browser. Text uses
// the Go font family whatever the face asks for, and icon glyphs are
// simplified shapes, so output differs from a browser capture in detail
// but not in layout. Only inline images are drawn; remote logo URLs must
// be inlined beforehand (see [LogoLoader]).
//
// The zero value is ready to use and safe for concurrent use.
type RasterCapturer struct{}

// Capture implements [Capturer].
func (RasterCapturer) Capture(ctx context.Context, f *Face, opts CaptureOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o, err := opts.resolved()
	if err != nil {
		return nil, err
	}
	img, err := rasterize(f, o)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("bizcard: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func rasterize(f *Face, o CaptureOptions) (image.Image, error) {
	r := o.PixelRatio
	w := int(math.Ceil(f.Width * r))
	h := int(math.Ceil(f.Height * r))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bizcard: empty face %vx%v", f.Width, f.Height)
	}
	bg, _ := parseCSSColor(o.BackgroundColor)

	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()

	p := &painter{dc: dc, r: r, faces: make(map[faceKey]font.Face)}
	defer p.close()
	dc.DrawRoundedRectangle(0, 0, f.Width*r, f.Height*r, f.CornerRadius*r)
	dc.Clip()
	p.fillRect(0, 0, f.Width, f.Height, f.CornerRadius, f.Background, 1)
	for _, e := range f.Elements {
		if err := p.element(e); err != nil {
			return nil, fmt.Errorf("bizcard: drawing %s: %w", e.Role, err)
		}
	}
	dc.ResetClip()
	if f.Border.Width > 0 {
		p.strokeRect(0, 0, f.Width, f.Height, f.CornerRadius, f.Border, 1)
	}
	return dc.Image(), nil
}

// painter draws layout units onto a device context scaled by r. Glyphs are
// rasterized at the device size rather than transformed, so coordinates are
// scaled here instead of through the context matrix.
type painter struct {
	dc    *gg.Context
	r     float64
	faces map[faceKey]font.Face
}

// close releases the cached font faces.
func (p *painter) close() {
	for k, f := range p.faces {
		f.Close()
		delete(p.faces, k)
	}
}

func (p *painter) element(e Element) error {
	alpha := e.Alpha()
	switch e.Kind {
	case KindBox:
		p.fillRect(e.X, e.Y, e.W, e.H, e.Radius, e.Fill, alpha)
		if e.Stroke.Width > 0 {
			p.strokeRect(e.X, e.Y, e.W, e.H, e.Radius, e.Stroke, alpha)
		}
	case KindText:
		p.fillRect(e.X, e.Y, e.W, e.H, e.Radius, e.Fill, alpha)
		return p.text(e, alpha)
	case KindIcon:
		p.fillRect(e.X, e.Y, e.W, e.H, e.Radius, e.Fill, alpha)
		if e.Stroke.Width > 0 {
			p.strokeRect(e.X, e.Y, e.W, e.H, e.Radius, e.Stroke, alpha)
		}
		return p.icon(e, alpha)
	case KindImage:
		return p.image(e)
	}
	return nil
}

func (p *painter) fillRect(x, y, w, h, radius float64, paint Paint, alpha float64) {
	if paint.IsZero() {
		return
	}
	r := p.r
	switch {
	case paint.Gradient != nil:
		p.dc.SetFillStyle(linearGradient(*paint.Gradient, x*r, y*r, w*r, h*r, alpha))
	case paint.Stripes != nil:
		p.dc.SetFillStyle(newStripePattern(*paint.Stripes, x*r, y*r, w*r, h*r, r, alpha))
	default:
		c, ok := parseCSSColor(paint.Color)
		if !ok {
			return
		}
		p.dc.SetColor(withAlpha(c, alpha))
	}
	p.dc.DrawRoundedRectangle(x*r, y*r, w*r, h*r, radius*r)
	p.dc.Fill()
}

func (p *painter) strokeRect(x, y, w, h, radius float64, s Stroke, alpha float64) {
	c, ok := parseCSSColor(s.Color)
	if !ok {
		return
	}
	r := p.r
	// Borders sit inside the box, as with box-sizing: border-box.
	inset := s.Width / 2
	p.dc.SetColor(withAlpha(c, alpha))
	p.dc.SetLineWidth(s.Width * r)
	p.dc.DrawRoundedRectangle((x+inset)*r, (y+inset)*r, (w-s.Width)*r, (h-s.Width)*r, math.Max(radius-inset, 0)*r)
	p.dc.Stroke()
}

func (p *painter) text(e Element, alpha float64) error {
	if len(e.Runs) == 0 {
		return nil
	}
	r := p.r
	size := e.Font.Size
	if size <= 0 {
		size = 14
	}

	// Wrapped text only occurs for single-run boxes such as addresses.
	if e.H > size*1.6 && len(e.Runs) == 1 {
		face, err := p.face(e.Font.Bold || e.Runs[0].Bold, e.Font.Italic, size*r)
		if err != nil {
			return err
		}
		p.dc.SetFontFace(face)
		lines := p.dc.WordWrap(e.Runs[0].Text, e.W*r)
		lineH := size * 1.4
		for i, line := range lines {
			if float64(i+1)*lineH > e.H+0.5 {
				break
			}
			p.line(e, []Run{{Text: line, Color: e.Runs[0].Color}}, e.Y+float64(i)*lineH, lineH, alpha)
		}
		return nil
	}
	p.line(e, e.Runs, e.Y, e.H, alpha)
	return nil
}

// line draws runs on a single line vertically centred in [top, top+h].
func (p *painter) line(e Element, runs []Run, top, h, alpha float64) {
	r := p.r
	spacing := e.Font.LetterSpacing * r

	type seg struct {
		run  Run
		face font.Face
		w    float64
	}
	var segs []seg
	var total, ascent, descent float64
	for _, run := range runs {
		face, err := p.face(e.Font.Bold || run.Bold, e.Font.Italic, e.Font.Size*r)
		if err != nil {
			continue
		}
		p.dc.SetFontFace(face)
		w, _ := p.dc.MeasureString(run.Text)
		w += spacing * float64(len([]rune(run.Text)))
		m := face.Metrics()
		ascent = math.Max(ascent, float64(m.Ascent)/64)
		descent = math.Max(descent, float64(m.Descent)/64)
		segs = append(segs, seg{run: run, face: face, w: w})
		total += w
	}

	x := e.X * r
	switch e.Align {
	case AlignCenter:
		x += (e.W*r - total) / 2
	case AlignRight:
		x += e.W*r - total
	}
	baseline := (top+h/2)*r + (ascent-descent)/2

	for _, s := range segs {
		c, ok := parseCSSColor(s.run.Color)
		if !ok {
			c = color.Black
		}
		p.dc.SetFontFace(s.face)
		p.dc.SetColor(withAlpha(c, alpha))
		if spacing == 0 {
			p.dc.DrawString(s.run.Text, x, baseline)
			x += s.w
			continue
		}
		for _, ch := range s.run.Text {
			g := string(ch)
			p.dc.DrawString(g, x, baseline)
			gw, _ := p.dc.MeasureString(g)
			x += gw + spacing
		}
	}
}

func (p *painter) icon(e Element, alpha float64) error {
	r := p.r
	c, ok := parseCSSColor(e.Color)
	if !ok {
		c = color.Black
	}
	c = withAlpha(c, alpha)

	size := math.Min(e.W, e.H)
	if e.Stroke.Width > 0 || !e.Fill.IsZero() {
		size *= 0.5
	} else {
		size *= 0.9
	}
	cx, cy := (e.X+e.W/2)*r, (e.Y+e.H/2)*r
	s := size * r
	dc := p.dc
	dc.SetColor(c)
	dc.SetLineWidth(math.Max(s/12, 1))

	if label, ok := iconLabels[e.Icon]; ok {
		face, err := p.face(true, false, s*0.8)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.DrawStringAnchored(label, cx, cy, 0.5, 0.35)
		return nil
	}

	switch e.Icon {
	case IconPhone:
		dc.DrawRoundedRectangle(cx-s*0.28, cy-s*0.45, s*0.56, s*0.9, s*0.1)
		dc.Stroke()
		dc.DrawCircle(cx, cy+s*0.32, s*0.05)
		dc.Fill()
	case IconMail:
		x0, y0 := cx-s*0.45, cy-s*0.32
		dc.DrawRoundedRectangle(x0, y0, s*0.9, s*0.64, s*0.06)
		dc.Stroke()
		dc.MoveTo(x0, y0+s*0.06)
		dc.LineTo(cx, cy+s*0.04)
		dc.LineTo(x0+s*0.9, y0+s*0.06)
		dc.Stroke()
	case IconPin:
		dc.DrawCircle(cx, cy-s*0.12, s*0.3)
		dc.Stroke()
		dc.MoveTo(cx-s*0.22, cy+s*0.08)
		dc.LineTo(cx, cy+s*0.45)
		dc.LineTo(cx+s*0.22, cy+s*0.08)
		dc.Stroke()
		dc.DrawCircle(cx, cy-s*0.12, s*0.1)
		dc.Fill()
	}
	return nil
}

func (p *painter) image(e Element) error {
	raw, ok := decodeDataURI(e.Src)
	if !ok {
		return nil
	}
	// An image that does not decode is skipped like a remote one.
	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	r := p.r
	w, h := int(math.Round(e.W*r)), int(math.Round(e.H*r))
	if w <= 0 || h <= 0 {
		return nil
	}
	var fitted image.Image = imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)

	// Round the image on its own canvas; clipping the shared context would
	// replace the face clip.
	if e.Radius > 0 {
		ic := gg.NewContext(w, h)
		ic.DrawRoundedRectangle(0, 0, float64(w), float64(h), e.Radius*r)
		ic.Clip()
		ic.DrawImage(fitted, 0, 0)
		fitted = ic.Image()
	}
	p.dc.DrawImage(fitted, int(math.Round(e.X*r)), int(math.Round(e.Y*r)))
	return nil
}

// decodeDataURI returns the payload of a base64 data: URL.
func decodeDataURI(s string) ([]byte, bool) {
	if !strings.HasPrefix(s, "data:") {
		return nil, false
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return b, true
}

// linearGradient maps a CSS gradient angle onto the box. The gradient line
// passes through the box centre and is long enough for the corners to reach
// the first and last stops.
func linearGradient(g Gradient, x, y, w, h, alpha float64) gg.Gradient {
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	cx, cy := x+w/2, y+h/2
	lg := gg.NewLinearGradient(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half)
	for _, st := range g.Stops {
		c, ok := parseCSSColor(st.Color)
		if !ok {
			continue
		}
		lg.AddColorStop(st.Offset, withAlpha(c, alpha))
	}
	return lg
}

// stripePattern paints a repeating band every Width+Gap units along the
// stripe direction, starting with the gap.
type stripePattern struct {
	dx, dy   float64
	ox, oy   float64
	gap      float64
	period   float64
	color    color.Color
	clearCol color.Color
}

func newStripePattern(s Stripes, x, y, w, h, scale, alpha float64) *stripePattern {
	rad := s.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	c, ok := parseCSSColor(s.Color)
	if !ok {
		c = color.Transparent
	}
	return &stripePattern{
		dx: dx, dy: dy,
		ox: x + w/2 - dx*half, oy: y + h/2 - dy*half,
		gap:      s.Gap * scale,
		period:   (s.Gap + s.Width) * scale,
		color:    withAlpha(c, alpha),
		clearCol: color.Transparent,
	}
}

func (p *stripePattern) ColorAt(x, y int) color.Color {
	if p.period <= 0 {
		return p.clearCol
	}
	t := (float64(x)+0.5-p.ox)*p.dx + (float64(y)+0.5-p.oy)*p.dy
	t = math.Mod(t, p.period)
	if t < 0 {
		t += p.period
	}
	if t >= p.gap {
		return p.color
	}
	return p.clearCol
}

// parseCSSColor understands the color syntax the renderers emit:
// #rrggbb, rgb(r, g, b), rgba(r, g, b, a) and transparent.
func parseCSSColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "transparent":
		return color.Transparent, true
	case strings.HasPrefix(s, "#"):
		c, err := ParseHex(s)
		if err != nil {
			return nil, false
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, true
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if end < open {
			return nil, false
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return nil, false
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return nil, false
			}
			ch[i] = uint8(v)
		}
		a := 1.0
		if len(parts) == 4 {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return nil, false
			}
			a = math.Max(0, math.Min(1, v))
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(math.Round(a * 255))}, true
	}
	return nil, false
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}

var (
	goFontsOnce sync.Once
	goFonts     [4]*opentype.Font
	errGoFonts  error
)

func loadGoFonts() error {
	goFontsOnce.Do(func() {
		for i, ttf := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				errGoFonts = fmt.Errorf("parse go font: %w", err)
				return
			}
			goFonts[i] = f
		}
	})
	return errGoFonts
}

type faceKey struct {
	style int
	size  float64
}

// face returns a Go font face at the given pixel size. Faces hold glyph
// buffers and are not safe for concurrent use, so they are cached per
// painter while the parsed fonts are shared.
func (p *painter) face(bold, italic bool, size float64) (font.Face, error) {
	if err := loadGoFonts(); err != nil {
		return nil, err
	}
	style := 0
	if bold {
		style |= 1
	}
	if italic {
		style |= 2
	}
	key := faceKey{style: style, size: math.Round(size*100) / 100}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(goFonts[style], &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create go font face %.2f: %w", size, err)
	}
	p.faces[key] = f
	return f, nil
}
