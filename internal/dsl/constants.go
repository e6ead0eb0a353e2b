package dsl

import "regexp"

// Hard resource limits. These bound memory and CPU for a single render
// regardless of what the script asks for.
const (
	MaxWidth    = 1280
	MaxHeight   = 720
	MaxFPS      = 24
	MaxDuration = 6.0
	MaxFrames   = 300
	MaxObjects  = 50
)

// Easing curve names accepted by MOVE / MOVE TO clauses.
const (
	EaseLinear = "linear"
	EaseIn     = "ease-in"
	EaseOut    = "ease-out"
)

const (
	defaultBackground = "#202020"
	defaultFPS        = 24
	defaultDuration   = 3.0
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColor reports whether s is a full #RRGGBB hex color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// HexToRGB converts a validated #RRGGBB string to its components.
func HexToRGB(s string) (r, g, b uint8) {
	return hexByte(s[1], s[2]), hexByte(s[3], s[4]), hexByte(s[5], s[6])
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// ClampCoord clamps a coordinate into [0, max].
func ClampCoord(v, max int) int {
	return clampInt(v, 0, max)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isAllowedEase(s string) bool {
	return s == EaseLinear || s == EaseIn || s == EaseOut
}
