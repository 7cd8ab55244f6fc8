package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// HSLColor is a colour in the hue/saturation/lightness model.
// H is in degrees [0, 360), S and L are percentages [0, 100].
type HSLColor struct {
	H int
	S int
	L int
}

// Colours used by status badges
const (
	SavedBackground = "#28a745"
	SavedForeground = "white"
)

var hslPattern = regexp.MustCompile(`^\s*hsl\(\s*(\d+)\s*,\s*(\d+)%?\s*,\s*(\d+)%?\s*\)\s*$`)

// ParseHSL parses the CSS notation "hsl(210, 70%, 60%)"
func ParseHSL(s string) (HSLColor, error) {
	m := hslPattern.FindStringSubmatch(s)
	if m == nil {
		return HSLColor{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	h, _ := strconv.Atoi(m[1])
	sat, _ := strconv.Atoi(m[2])
	l, _ := strconv.Atoi(m[3])

	c := HSLColor{H: h, S: sat, L: l}
	if err := c.Validate(); err != nil {
		return HSLColor{}, err
	}
	return c, nil
}

// MustParseHSL is like ParseHSL but panics on malformed input.
// Intended for literals in tests and defaults.
func MustParseHSL(s string) HSLColor {
	c, err := ParseHSL(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that all components are within range
func (c HSLColor) Validate() error {
	if c.H < 0 || c.H >= 360 {
		return fmt.Errorf("%w: hue %d out of range", ErrInvalidColor, c.H)
	}
	if c.S < 0 || c.S > 100 {
		return fmt.Errorf("%w: saturation %d out of range", ErrInvalidColor, c.S)
	}
	if c.L < 0 || c.L > 100 {
		return fmt.Errorf("%w: lightness %d out of range", ErrInvalidColor, c.L)
	}
	return nil
}

// IsZero reports whether the colour was never set
func (c HSLColor) IsZero() bool {
	return c == HSLColor{}
}

// String renders the CSS notation
func (c HSLColor) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}

// Darken lowers lightness by percent points, floored at zero
func (c HSLColor) Darken(percent int) HSLColor {
	c.L = max(0, c.L-percent)
	return c
}

// Contrast returns the text colour readable on top of c
func (c HSLColor) Contrast() string {
	if c.L > 60 {
		return "#000"
	}
	return "#fff"
}

// MarshalText implements encoding.TextMarshaler so colours serialize as CSS strings
func (c HSLColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *HSLColor) UnmarshalText(text []byte) error {
	parsed, err := ParseHSL(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
