package bizcard

const (
	modernSans  = "Inter, -apple-system, BlinkMacSystemFont, sans-serif"
	modernSerif = `Georgia, "Times New Roman", serif`
)

// modernRenderer draws the gradient card with the chevron pattern and the
// round social icons.
type modernRenderer struct{}

func (modernRenderer) Variant() Variant { return Modern }

func (modernRenderer) Render(d CardData, side Side) (*Face, error) {
	return renderWith(Modern, d, side, modernFront, modernBack)
}

func modernFront(v cardView) *Face {
	f := &Face{
		Width:        FaceWidth,
		Height:       FaceHeight,
		CornerRadius: 16,
		FontFamily:   modernSans,
		Border:       Stroke{Color: "rgba(255, 255, 255, 0.1)", Width: 1},
		Background: Paint{Gradient: &Gradient{Angle: 135, Stops: []Stop{
			{Offset: 0, Color: v.theme},
			{Offset: 1, Color: v.darker},
		}}},
	}

	for _, angle := range []float64{45, -45} {
		f.Elements = append(f.Elements, Element{
			Kind: KindBox, Role: RolePattern,
			W: FaceWidth, H: FaceHeight,
			Fill:    Paint{Stripes: &Stripes{Angle: angle, Color: v.darker, Width: 2, Gap: 30}},
			Opacity: 0.2,
		})
	}

	white := "#ffffff"
	f.Elements = append(f.Elements,
		text(RoleCompanyMain, 50, 93, 480, 70,
			Font{Family: modernSans, Size: 70, Bold: true, LetterSpacing: 6}, AlignLeft,
			Run{Text: v.company.Main, Color: white}),
		text(RoleCompanySub, 100, 163, 430, 22,
			Font{Family: modernSans, Size: 18, Bold: true}, AlignLeft,
			Run{Text: v.company.Sub, Color: white}),
		text(RoleTagline, 60, 185, 470, 22,
			Font{Family: modernSans, Size: 18, Italic: true}, AlignLeft,
			Run{Text: TaglineLead, Color: white},
			Run{Text: TaglineAccent, Color: defaultAccentColor, Bold: true}),
	)

	// Social row and website sit 30 units from the bottom right corner.
	const size, gap = 36, 10
	x := float64(FaceWidth - 30 - len(socialIcons)*size - (len(socialIcons)-1)*gap)
	for _, icon := range socialIcons {
		f.Elements = append(f.Elements, Element{
			Kind: KindIcon, Role: RoleSocial, Icon: icon,
			X: x, Y: 244, W: size, H: size, Radius: size / 2,
			Color:  white,
			Stroke: Stroke{Color: white, Width: 2},
		})
		x += size + gap
	}
	f.Elements = append(f.Elements, text(RoleWebsite, 100, 292, 450, 18,
		Font{Family: modernSans, Size: 14, LetterSpacing: 1}, AlignRight,
		Run{Text: v.website, Color: white}))
	return f
}

func modernBack(v cardView) *Face {
	f := &Face{
		Width:        FaceWidth,
		Height:       FaceHeight,
		CornerRadius: 16,
		FontFamily:   modernSerif,
		Border:       Stroke{Color: "rgba(0, 0, 0, 0.1)", Width: 1},
		Background: Paint{Gradient: &Gradient{Angle: 135, Stops: []Stop{
			{Offset: 0, Color: "#f5f5f5"},
			{Offset: 0.5, Color: "#ffffff"},
			{Offset: 1, Color: "#f0f0f0"},
		}}},
	}

	f.Elements = append(f.Elements,
		Element{
			Kind: KindBox, Role: RolePattern, X: FaceWidth - 150, W: 150, H: 150,
			Fill:    Paint{Stripes: &Stripes{Angle: 45, Color: v.theme, Width: 10, Gap: 10}},
			Opacity: 0.1,
		},
		Element{
			Kind: KindBox, Role: RolePattern, Y: FaceHeight - 150, W: 150, H: 150,
			Fill:    Paint{Stripes: &Stripes{Angle: -45, Color: v.theme, Width: 10, Gap: 10}},
			Opacity: 0.1,
		},
		text(RoleName, 40, 131, 230, 40,
			Font{Family: modernSerif, Size: 32, Bold: true, LetterSpacing: 0.5}, AlignCenter,
			Run{Text: v.name, Color: "#1a1a1a"}),
		text(RoleJobTitle, 40, 173, 230, 24,
			Font{Family: modernSerif, Size: 18, Italic: true}, AlignCenter,
			Run{Text: v.title, Color: "#4a4a4a"}),
	)

	// Contact rows are bottom aligned in the right column, icons on the
	// right edge, text right aligned against them.
	const (
		right    = 528
		bottom   = 300
		rowGap   = 14
		lineH    = 21
		iconSize = 20
	)
	y := float64(bottom)
	rows := make([]Element, 0, 2*len(v.contacts))
	for i := len(v.contacts) - 1; i >= 0; i-- {
		c := v.contacts[i]
		h := float64(c.lines * lineH)
		y -= h
		rows = append(rows,
			Element{
				Kind: KindIcon, Role: c.role, Icon: c.icon,
				X: right - iconSize, Y: y, W: iconSize, H: iconSize,
				Color: v.theme,
			},
			text(c.role, 310, y, right-iconSize-10-310, h,
				Font{Family: "Inter, sans-serif", Size: 15, Bold: c.bold}, AlignRight,
				Run{Text: c.text, Color: "#1a1a1a"}),
		)
		y -= rowGap
	}
	f.Elements = append(f.Elements, rows...)

	f.Elements = append(f.Elements, Element{
		Kind: KindBox, Role: RoleAccentBar,
		X: 535, Y: 170, W: 5, H: 130,
		Fill: Solid(v.theme),
	})
	return f
}
