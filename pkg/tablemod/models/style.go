package models

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// TextStyle is a font style applied to a cell.
type TextStyle string

const (
	// StyleUnset leaves the text style alone.
	StyleUnset      TextStyle = ""
	StyleRegular    TextStyle = "regular"
	StyleBold       TextStyle = "bold"
	StyleItalic     TextStyle = "italic"
	StyleBoldItalic TextStyle = "bolditalic"
)

// ParseTextStyle parses a text style name, ignoring case.
func ParseTextStyle(s string) (TextStyle, error) {
	switch ts := TextStyle(strings.ToLower(strings.TrimSpace(s))); ts {
	case StyleUnset, StyleRegular, StyleBold, StyleItalic, StyleBoldItalic:
		return ts, nil
	}
	return "", fmt.Errorf("invalid text style: %s (must be regular, bold, italic, or bolditalic)", s)
}

// Bold reports whether the style includes bold.
func (s TextStyle) Bold() bool { return s == StyleBold || s == StyleBoldItalic }

// Italic reports whether the style includes italic.
func (s TextStyle) Italic() bool { return s == StyleItalic || s == StyleBoldItalic }

// Color is an RGB color packed as r + 256*(g + 256*b).
type Color int

// RGB packs three 0-255 channel values into a Color.
func RGB(r, g, b int) Color {
	return Color(r + 256*(g+256*b))
}

// ParseRGB packs a color given as a list of exactly three channel values.
func ParseRGB(channels []int) (Color, error) {
	if len(channels) != 3 {
		return 0, fmt.Errorf("color must consist of three integers (R, G, and B values) between 0 and 255, got %d values", len(channels))
	}
	for _, c := range channels {
		if c < 0 || c > 255 {
			return 0, fmt.Errorf("color value %d is not between 0 and 255", c)
		}
	}
	return RGB(channels[0], channels[1], channels[2]), nil
}

// Valid reports whether the color packs three 0-255 channels.
func (c Color) Valid() bool { return c >= 0 && c <= 0xFFFFFF }

// Channels unpacks the color.
func (c Color) Channels() (r, g, b int) {
	v := int(c)
	return v % 256, (v / 256) % 256, (v / 65536) % 256
}

// Colorful converts the color for blending and hex output.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.Channels()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FromColorful packs a go-colorful color, clamping out-of-gamut values.
func FromColorful(cc colorful.Color) Color {
	r, g, b := cc.Clamped().RGB255()
	return RGB(int(r), int(g), int(b))
}

// Hex returns the color as RRGGBB without a leading '#', the form excelize expects.
func (c Color) Hex() string {
	return strings.ToUpper(strings.TrimPrefix(c.Colorful().Hex(), "#"))
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	return FromColorful(cc), nil
}
