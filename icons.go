package bizcard

import (
	"fmt"
	"html/template"
)

// iconPaths holds 24x24 outline glyphs drawn with currentColor.
var iconPaths = map[Icon]string{
	IconPhone: `<path d="M22 16.92v3a2 2 0 0 1-2.18 2 19.79 19.79 0 0 1-8.63-3.07 19.5 19.5 0 0 1-6-6 19.79 19.79 0 0 1-3.07-8.67A2 2 0 0 1 4.11 2h3a2 2 0 0 1 2 1.72 12.84 12.84 0 0 0 .7 2.81 2 2 0 0 1-.45 2.11L8.09 9.91a16 16 0 0 0 6 6l1.27-1.27a2 2 0 0 1 2.11-.45 12.84 12.84 0 0 0 2.81.7A2 2 0 0 1 22 16.92z"/>`,
	IconMail: `<rect x="2" y="4" width="20" height="16" rx="2"/>` +
		`<path d="m22 7-8.97 5.7a1.94 1.94 0 0 1-2.06 0L2 7"/>`,
	IconPin: `<path d="M20 10c0 6-8 12-8 12s-8-6-8-12a8 8 0 0 1 16 0Z"/>` +
		`<circle cx="12" cy="10" r="3"/>`,
	IconFacebook: `<path d="M18 2h-3a5 5 0 0 0-5 5v3H7v4h3v8h4v-8h3l1-4h-4V7a1 1 0 0 1 1-1h3z"/>`,
	IconInstagram: `<rect x="2" y="2" width="20" height="20" rx="5"/>` +
		`<path d="M16 11.37A4 4 0 1 1 12.63 8 4 4 0 0 1 16 11.37z"/>` +
		`<line x1="17.5" y1="6.5" x2="17.51" y2="6.5"/>`,
	IconTwitter: `<path d="M22 4s-.7 2.1-2 3.4c1.6 10-9.4 17.3-18 11.6 2.2.1 4.4-.6 6-2C3 15.5.5 9.6 3 5c2.2 2.6 5.6 4.1 9 4-.9-4.2 4-6.6 7-3.8 1.1 0 3-1.2 3-1.2z"/>`,
	IconLinkedIn: `<path d="M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-2-2 2 2 0 0 0-2 2v7h-4v-7a6 6 0 0 1 6-6z"/>` +
		`<rect x="2" y="9" width="4" height="12"/><circle cx="4" cy="4" r="2"/>`,
}

// iconLabels are the text stand-ins used where vector glyphs are not
// available.
var iconLabels = map[Icon]string{
	IconFacebook:  "f",
	IconInstagram: "IG",
	IconTwitter:   "T",
	IconLinkedIn:  "in",
}

// iconSVG returns an inline SVG of the glyph at the given size in unit.
func iconSVG(icon Icon, size float64, unit string) template.HTML {
	paths, ok := iconPaths[icon]
	if !ok {
		return ""
	}
	s := formatLength(size, unit)
	return template.HTML(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round">%s</svg>`,
		s, s, paths))
}
