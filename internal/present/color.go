package present

import (
	"strconv"
	"strings"
)

const (
	DarkText  = "#111"
	LightText = "#FFF"

	luminanceThreshold = 0.6
)

// ReadableTextColor picks a label color that contrasts with the hex background.
// Unparsable input gets the dark color.
func ReadableTextColor(hex string) string {
	l, ok := Luminance(hex)
	if !ok || l > luminanceThreshold {
		return DarkText
	}
	return LightText
}

// Luminance returns the perceptual luminance of "#RRGGBB" or "#RGB" in [0,1].
func Luminance(hex string) (float64, bool) {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return 0, false
	}
	// conversions keep each product rounded so no platform fuses the multiply-add
	sum := float64(0.299*r) + float64(0.587*g) + float64(0.114*b)
	return sum / 255, true
}

func parseHex(hex string) (r, g, b float64, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff), true
}
