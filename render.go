package bizcard

import "fmt"

// Display fallbacks applied by renderers on top of normalized data.
const (
	DisplayName        = "Name"
	DisplayJobTitle    = "Designation"
	DisplayWebsite     = "www.onexproperty.com"
	TaglineLead        = "Real Estate "
	TaglineAccent      = "Reimagined"
	defaultAccentColor = "#4ade80"
)

// Element roles shared by every variant. Tests and the preview server look
// elements up by role.
const (
	RoleCompanyMain = "company-main"
	RoleCompanySub  = "company-sub"
	RoleTagline     = "tagline"
	RoleWebsite     = "website"
	RoleSocial      = "social"
	RoleLogo        = "logo"
	RoleName        = "name"
	RoleJobTitle    = "job-title"
	RolePhone       = "phone"
	RoleEmail       = "email"
	RoleAddress     = "address"
	RoleAccentBar   = "accent-bar"
	RolePattern     = "pattern"
)

// Renderer maps card data to the layout of one face. Every variant satisfies
// the same contract, so callers select one by [Variant] and never branch on
// it themselves.
type Renderer interface {
	Variant() Variant
	Render(d CardData, side Side) (*Face, error)
}

// NewRenderer returns the renderer for v.
func NewRenderer(v Variant) (Renderer, error) {
	switch v {
	case Classic:
		return classicRenderer{}, nil
	case Modern:
		return modernRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Render is shorthand for NewRenderer(v) followed by Render(d, side).
func Render(d CardData, side Side, v Variant) (*Face, error) {
	r, err := NewRenderer(v)
	if err != nil {
		return nil, err
	}
	return r.Render(d, side)
}

// RenderBoth renders the front and back faces of d.
func RenderBoth(r Renderer, d CardData) (front, back *Face, err error) {
	if front, err = r.Render(d, Front); err != nil {
		return nil, nil, err
	}
	if back, err = r.Render(d, Back); err != nil {
		return nil, nil, err
	}
	return front, back, nil
}

// cardView is the display model derived once from CardData and shared by
// all variants.
type cardView struct {
	theme    string // validated #rrggbb
	darker   string // rgb(r, g, b)
	company  CompanyNameParts
	name     string
	title    string
	website  string
	logo     string
	contacts []contactRow
}

type contactRow struct {
	role string
	icon Icon
	text string
	bold bool
	// lines reserved for the row; addresses may wrap.
	lines int
}

func newCardView(d CardData) (cardView, error) {
	d = d.Normalize()
	theme, err := ParseHex(d.ThemeColor)
	if err != nil {
		return cardView{}, err
	}
	v := cardView{
		theme:   theme.Hex(),
		darker:  theme.Darken(DarkenStep).CSS(),
		company: SplitCompanyName(d.CompanyName),
		name:    orDisplay(d.Name, DisplayName),
		title:   orDisplay(d.JobType, DisplayJobTitle),
		website: orDisplay(d.Website, DisplayWebsite),
		logo:    d.CompanyLogoURL,
	}
	if d.Phone != "" {
		v.contacts = append(v.contacts, contactRow{role: RolePhone, icon: IconPhone, text: d.Phone, bold: true, lines: 1})
	}
	if d.Email != "" {
		v.contacts = append(v.contacts, contactRow{role: RoleEmail, icon: IconMail, text: d.Email, lines: 1})
	}
	v.contacts = append(v.contacts, contactRow{
		role:  RoleAddress,
		icon:  IconPin,
		text:  orDisplay(d.Address, DefaultAddress),
		lines: 2,
	})
	return v, nil
}

func orDisplay(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// renderWith validates the data once and dispatches to the face builders of
// a variant.
func renderWith(v Variant, d CardData, side Side, front, back func(cardView) *Face) (*Face, error) {
	view, err := newCardView(d)
	if err != nil {
		return nil, err
	}
	var f *Face
	switch side {
	case Front:
		f = front(view)
	case Back:
		f = back(view)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	f.Side = side
	f.Variant = v
	return f, nil
}

var socialIcons = []Icon{IconFacebook, IconInstagram, IconTwitter, IconLinkedIn}

func text(role string, x, y, w, h float64, font Font, align Align, runs ...Run) Element {
	return Element{Kind: KindText, Role: role, X: x, Y: y, W: w, H: h, Font: font, Align: align, Runs: runs}
}
