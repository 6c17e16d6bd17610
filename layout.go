package bizcard

import "fmt"

// Side selects the card face.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// ParseSide validates s.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Front, Back:
		return Side(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// Opposite returns the other face.
func (s Side) Opposite() Side {
	if s == Front {
		return Back
	}
	return Front
}

// Variant selects the visual treatment of a card.
type Variant string

const (
	Classic Variant = "classic"
	Modern  Variant = "modern"
)

// Variants lists every supported variant.
var Variants = []Variant{Classic, Modern}

// ParseVariant validates s. The original UI names "old" and "new" are
// accepted as aliases.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case string(Classic), "old":
		return Classic, nil
	case string(Modern), "new":
		return Modern, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Layout units of a card face on screen. Print output scales them to
// [CardWidthMM] x [CardHeightMM].
const (
	FaceWidth  = 580
	FaceHeight = 340
)

// Face is the renderer-agnostic description of one card face: a sized
// canvas with a background and an ordered list of absolutely placed
// elements. Later elements paint over earlier ones.
type Face struct {
	Side    Side
	Variant Variant

	Width        float64
	Height       float64
	CornerRadius float64
	Background   Paint
	Border       Stroke
	FontFamily   string

	Elements []Element
}

// Find returns the first element with the given role.
func (f *Face) Find(role string) (Element, bool) {
	for _, e := range f.Elements {
		if e.Role == role {
			return e, true
		}
	}
	return Element{}, false
}

// Has reports whether an element with the given role exists.
func (f *Face) Has(role string) bool {
	_, ok := f.Find(role)
	return ok
}

// Text concatenates the visible text of the face in paint order,
// one element per line.
func (f *Face) Text() string {
	var out []byte
	for _, e := range f.Elements {
		if t := e.PlainText(); t != "" {
			out = append(out, t...)
			out = append(out, '\n')
		}
	}
	return string(out)
}

// Paint fills a region. Exactly one of Color, Gradient or Stripes is set;
// the zero Paint is transparent.
type Paint struct {
	Color    string
	Gradient *Gradient
	Stripes  *Stripes
}

// Solid returns a single color paint.
func Solid(c string) Paint { return Paint{Color: c} }

// IsZero reports whether the paint draws nothing.
func (p Paint) IsZero() bool {
	return p.Color == "" && p.Gradient == nil && p.Stripes == nil
}

// Gradient is a linear gradient. Angle follows CSS: 0deg points up,
// 90deg points right.
type Gradient struct {
	Angle float64
	Stops []Stop
}

type Stop struct {
	Offset float64 // 0..1
	Color  string
}

// Stripes is a repeating diagonal line pattern.
type Stripes struct {
	Angle float64
	Color string
	Width float64
	Gap   float64
}

// Stroke outlines a region. Width zero means no outline.
type Stroke struct {
	Color string
	Width float64
}

// ElementKind identifies what an [Element] draws.
type ElementKind int

const (
	KindBox ElementKind = iota
	KindText
	KindIcon
	KindImage
)

func (k ElementKind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindIcon:
		return "icon"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Align positions text horizontally inside its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Icon names the glyph of a [KindIcon] element.
type Icon string

const (
	IconPhone     Icon = "phone"
	IconMail      Icon = "mail"
	IconPin       Icon = "pin"
	IconFacebook  Icon = "facebook"
	IconInstagram Icon = "instagram"
	IconTwitter   Icon = "twitter"
	IconLinkedIn  Icon = "linkedin"
)

// Font describes a text style. Size is in layout units.
type Font struct {
	Family        string
	Size          float64
	Bold          bool
	Italic        bool
	LetterSpacing float64
}

// Run is a span of text sharing one color and weight.
type Run struct {
	Text  string
	Color string
	Bold  bool
}

// Element is one drawable item. X, Y, W and H give its box in layout units.
type Element struct {
	Kind ElementKind
	Role string

	X, Y, W, H float64

	Fill    Paint
	Stroke  Stroke
	Radius  float64
	Opacity float64 // zero means opaque

	// Text elements.
	Runs  []Run
	Font  Font
	Align Align

	// Icon elements. Color tints the glyph, Stroke draws the optional ring.
	Icon  Icon
	Color string

	// Image elements.
	Src string
}

// PlainText returns the concatenated runs.
func (e Element) PlainText() string {
	var s string
	for _, r := range e.Runs {
		s += r.Text
	}
	return s
}

// Alpha returns the effective opacity in 0..1.
func (e Element) Alpha() float64 {
	if e.Opacity <= 0 || e.Opacity > 1 {
		return 1
	}
	return e.Opacity
}
