package bizcard

import "unicode/utf8"

const (
	classicSans   = "Helvetica, Arial, sans-serif"
	classicSerif  = `Georgia, "Times New Roman", serif`
	classicAccent = "#d4af37"
)

// classicRenderer draws the flat corporate card: logo or monogram on a
// vertical gradient, left aligned contact list on a white back.
type classicRenderer struct{}

func (classicRenderer) Variant() Variant { return Classic }

func (classicRenderer) Render(d CardData, side Side) (*Face, error) {
	return renderWith(Classic, d, side, classicFront, classicBack)
}

func classicFront(v cardView) *Face {
	f := &Face{
		Width:        FaceWidth,
		Height:       FaceHeight,
		CornerRadius: 12,
		FontFamily:   classicSans,
		Background: Paint{Gradient: &Gradient{Angle: 180, Stops: []Stop{
			{Offset: 0, Color: v.theme},
			{Offset: 1, Color: v.darker},
		}}},
	}

	white := "#ffffff"
	if v.logo != "" {
		f.Elements = append(f.Elements, Element{
			Kind: KindImage, Role: RoleLogo,
			X: 40, Y: 40, W: 64, H: 64, Radius: 8,
			Src: v.logo,
		})
	} else {
		r, _ := utf8.DecodeRuneInString(v.company.Main)
		f.Elements = append(f.Elements,
			Element{
				Kind: KindBox, Role: RoleLogo,
				X: 40, Y: 40, W: 64, H: 64, Radius: 32,
				Stroke: Stroke{Color: white, Width: 2},
			},
			text(RoleLogo, 40, 56, 64, 32,
				Font{Family: classicSerif, Size: 30, Bold: true}, AlignCenter,
				Run{Text: string(r), Color: white}),
		)
	}

	f.Elements = append(f.Elements,
		text(RoleCompanyMain, 40, 136, 500, 52,
			Font{Family: classicSans, Size: 44, Bold: true, LetterSpacing: 4}, AlignLeft,
			Run{Text: v.company.Main, Color: white}),
		text(RoleCompanySub, 40, 190, 500, 22,
			Font{Family: classicSans, Size: 16, LetterSpacing: 3}, AlignLeft,
			Run{Text: v.company.Sub, Color: white}),
		Element{Kind: KindBox, Role: RoleAccentBar, X: 40, Y: 222, W: 60, H: 3, Fill: Solid(classicAccent)},
		text(RoleTagline, 40, 234, 500, 20,
			Font{Family: classicSerif, Size: 14, Italic: true}, AlignLeft,
			Run{Text: TaglineLead, Color: white},
			Run{Text: TaglineAccent, Color: classicAccent, Bold: true}),
	)

	const size, gap = 24, 8
	x := 40.0
	for _, icon := range socialIcons {
		f.Elements = append(f.Elements, Element{
			Kind: KindIcon, Role: RoleSocial, Icon: icon,
			X: x, Y: 284, W: size, H: size, Radius: 4,
			Color: white,
			Fill:  Solid("rgba(255, 255, 255, 0.15)"),
		})
		x += size + gap
	}
	f.Elements = append(f.Elements, text(RoleWebsite, 280, 287, 260, 18,
		Font{Family: classicSans, Size: 13, LetterSpacing: 0.5}, AlignRight,
		Run{Text: v.website, Color: white}))
	return f
}

func classicBack(v cardView) *Face {
	f := &Face{
		Width:        FaceWidth,
		Height:       FaceHeight,
		CornerRadius: 12,
		FontFamily:   classicSans,
		Border:       Stroke{Color: "#e5e7eb", Width: 1},
		Background:   Solid("#fafafa"),
	}

	f.Elements = append(f.Elements,
		Element{Kind: KindBox, Role: RoleAccentBar, W: 12, H: FaceHeight, Fill: Solid(v.theme)},
		text(RoleName, 48, 56, 484, 40,
			Font{Family: classicSerif, Size: 30, Bold: true}, AlignLeft,
			Run{Text: v.name, Color: "#1a1a1a"}),
		text(RoleJobTitle, 48, 98, 484, 22,
			Font{Family: classicSerif, Size: 16, Italic: true}, AlignLeft,
			Run{Text: v.title, Color: "#4a4a4a"}),
		Element{Kind: KindBox, X: 48, Y: 134, W: 484, H: 1, Fill: Solid("#d1d5db")},
	)

	// Rows flow top down under the divider.
	const lineH, rowGap, iconSize = 20, 10, 18
	y := 156.0
	for _, c := range v.contacts {
		h := float64(c.lines * lineH)
		f.Elements = append(f.Elements,
			Element{
				Kind: KindIcon, Role: c.role, Icon: c.icon,
				X: 48, Y: y + 1, W: iconSize, H: iconSize,
				Color: v.theme,
			},
			text(c.role, 76, y, 456, h,
				Font{Family: classicSans, Size: 14, Bold: c.bold}, AlignLeft,
				Run{Text: c.text, Color: "#1a1a1a"}),
		)
		y += h + rowGap
	}
	return f
}
