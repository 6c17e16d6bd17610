package bizcard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultThemeColor is used whenever no theme color is configured.
const DefaultThemeColor = "#1a3a5f"

// DarkenStep is subtracted from every channel by [DarkerShade].
const DarkenStep = 30

var hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses a six digit hex color with an optional leading '#'.
// Three digit shorthand, alpha and named colors are rejected with a
// [*ColorFormatError].
func ParseHex(s string) (RGB, error) {
	if !hexColorPattern.MatchString(s) {
		return RGB{}, &ColorFormatError{Value: s}
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return RGB{}, &ColorFormatError{Value: s}
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Darken subtracts step from each channel, clamping at zero.
func (c RGB) Darken(step uint8) RGB {
	sub := func(v uint8) uint8 {
		if v < step {
			return 0
		}
		return v - step
	}
	return RGB{R: sub(c.R), G: sub(c.G), B: sub(c.B)}
}

// CSS formats the color as "rgb(r, g, b)".
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DarkerShade returns the gradient end color for a theme color:
// every channel lowered by [DarkenStep] and formatted as "rgb(r, g, b)".
//
//	DarkerShade("#1a3a5f") // "rgb(0, 28, 65)"
func DarkerShade(hex string) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return c.Darken(DarkenStep).CSS(), nil
}
