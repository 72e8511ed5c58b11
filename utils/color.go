package utils

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Clamp limits t to [min, max]. The bounds may be given in either order.
func Clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// NormalizeColor parses a hex color and returns it in lower case #rrggbb form.
func NormalizeColor(hex string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// HueToHex returns the fully saturated color at hue (0-1, wrapping) with 50% lightness.
func HueToHex(hue float64) string {
	hue = math.Mod(hue, 1)
	if hue < 0 {
		hue++
	}
	return colorful.Hsl(hue*360, 1, 0.5).Clamped().Hex()
}

// GetRGBFromString returns the 8 bit RGB components of a hex color.
func GetRGBFromString(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.Clamped().RGB255()
	return r, g, b, nil
}

// UnitToByte scales a 0-1 value to a DMX level.
func UnitToByte(v float64) byte {
	return byte(math.Round(Clamp(v, 0, 1) * 255))
}
