package colors

import (
	"encoding/hex"
	"fmt"
	"strings"
)

type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

var named = map[string]Color{
	"white":    White,
	"red":      Red,
	"green":    Green,
	"blue":     Blue,
	"black":    Black,
	"gray":     Gray,
	"darkgray": DarkGray,
}

// Parse reads a palette name ("black", "darkgray", ...), "#rrggbb" or
// "#rrggbbaa" (the leading '#' is optional).
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("colors: bad hex colour %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("colors: bad hex colour %q: %w", s, err)
	}
	c := Color{0, 0, 0, 1}
	for i, v := range b {
		c[i] = float32(v) / 255
	}
	return c, nil
}

func (c Color) String() string {
	var b [4]byte
	for i, v := range c {
		switch {
		case v <= 0:
			b[i] = 0
		case v >= 1:
			b[i] = 255
		default:
			b[i] = byte(v*255 + 0.5)
		}
	}
	if b[3] == 255 {
		return "#" + hex.EncodeToString(b[:3])
	}
	return "#" + hex.EncodeToString(b[:])
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
