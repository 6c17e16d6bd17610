package bizcard

import (
	"errors"
	"testing"
)

func TestDarkerShade(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#1a3a5f", "rgb(0, 28, 65)"},
		{"1a3a5f", "rgb(0, 28, 65)"},
		{"#000000", "rgb(0, 0, 0)"},
		{"#ffffff", "rgb(225, 225, 225)"},
		{"#1E1E1E", "rgb(0, 0, 0)"},
		{"#1f1f1f", "rgb(1, 1, 1)"},
	}
	for _, tt := range tests {
		got, err := DarkerShade(tt.in)
		if err != nil {
			t.Errorf("DarkerShade(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DarkerShade(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDarkerShade_Invalid(t *testing.T) {
	for _, in := range []string{"", "#fff", "#12345", "#1234567", "#gg0000", "red", "rgb(0,0,0)", "##123456", "#1a3a5f80"} {
		_, err := DarkerShade(in)
		if !errors.Is(err, ErrInvalidColorFormat) {
			t.Errorf("DarkerShade(%q) error = %v, want ErrInvalidColorFormat", in, err)
		}
		var cfe *ColorFormatError
		if !errors.As(err, &cfe) || cfe.Value != in {
			t.Errorf("DarkerShade(%q) error = %#v, want *ColorFormatError carrying the input", in, err)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0F766e")
	if err != nil {
		t.Fatal(err)
	}
	if c != (RGB{R: 0x0f, G: 0x76, B: 0x6e}) {
		t.Errorf("ParseHex = %+v", c)
	}
	if got := c.Hex(); got != "#0f766e" {
		t.Errorf("Hex() = %q, want #0f766e", got)
	}
	if got := c.CSS(); got != "rgb(15, 118, 110)" {
		t.Errorf("CSS() = %q", got)
	}
}

func TestDarkenClampsEachChannel(t *testing.T) {
	got := RGB{R: 10, G: 30, B: 200}.Darken(DarkenStep)
	want := RGB{R: 0, G: 0, B: 170}
	if got != want {
		t.Errorf("Darken = %+v, want %+v", got, want)
	}
}
