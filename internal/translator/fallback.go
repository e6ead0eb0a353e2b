package translator

import (
	"fmt"
	"regexp"
	"strings"
)

// Ordered so prompts naming several colors resolve the same way every run.
var colorMap = []struct{ name, hex string }{
	{"red", "#FF4444"},
	{"blue", "#4444FF"},
	{"green", "#44FF44"},
	{"yellow", "#FFFF44"},
	{"orange", "#FF8844"},
	{"purple", "#AA44FF"},
	{"pink", "#FF44AA"},
	{"white", "#FFFFFF"},
	{"cyan", "#44FFFF"},
	{"neon", "#00FF88"},
}

var (
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)
)

// generateFallbackDSL maps prompt keywords onto fixed script templates.
// Deterministic: the same prompt always yields the same script.
func generateFallbackDSL(prompt string, duration float64, fps int) string {
	lower := strings.ToLower(prompt)
	if duration > 6 {
		duration = 6
	}
	if fps > 24 {
		fps = 24
	}

	switch {
	case containsAny(lower, "text", "word", "title", "caption", "hello", "message"):
		text := extractQuotedText(prompt)
		if text == "" {
			text = "Hello World"
		}
		return fmt.Sprintf("BACKGROUND #202030\nFPS %d\nDURATION %g\nTEXT \"%s\" AT 180,150 SIZE 48 COLOR #FFFFFF MOVE TO 280,150 DUR %g\n",
			fps, duration, text, duration)

	case containsAny(lower, "ball", "circle", "bounce", "dot", "sphere"):
		color := extractColor(prompt)
		if color == "" {
			color = "#FF4444"
		}
		return fmt.Sprintf("BACKGROUND #1a1a2e\nFPS %d\nDURATION %g\nSHAPE CIRCLE ID ball AT 50,180 RADIUS 35 COLOR %s MOVE TO 550,180 DUR %g EASE linear\n",
			fps, duration, color, duration)

	case containsAny(lower, "square", "rect", "box", "rectangle"):
		color := extractColor(prompt)
		if color == "" {
			color = "#44FF44"
		}
		return fmt.Sprintf("BACKGROUND #1a1a2e\nFPS %d\nDURATION %g\nSHAPE RECT ID box AT 50,130 WIDTH 80 HEIGHT 80 COLOR %s MOVE TO 510,130 DUR %g EASE linear\n",
			fps, duration, color, duration)

	case containsAny(lower, "slide", "move", "animate"):
		return fmt.Sprintf("BACKGROUND #202040\nFPS %d\nDURATION %g\nSHAPE CIRCLE ID obj1 AT 100,100 RADIUS 25 COLOR #FF6600 MOVE TO 500,100 DUR %g EASE linear\nSHAPE RECT ID obj2 AT 100,220 WIDTH 50 HEIGHT 50 COLOR #0066FF MOVE TO 500,220 DUR %g EASE linear\n",
			fps, duration, duration, duration)

	default:
		return fmt.Sprintf("BACKGROUND #1e1e2e\nFPS %d\nDURATION %g\nSHAPE CIRCLE ID ball AT 100,180 RADIUS 30 COLOR #6699FF MOVE TO 540,180 DUR %g EASE linear\nTEXT \"Animation\" AT 220,50 SIZE 36 COLOR #FFFFFF\n",
			fps, duration, duration)
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func extractQuotedText(prompt string) string {
	if m := doubleQuoted.FindStringSubmatch(prompt); m != nil {
		return m[1]
	}
	if m := singleQuoted.FindStringSubmatch(prompt); m != nil {
		return m[1]
	}
	return ""
}

func extractColor(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, c := range colorMap {
		if strings.Contains(lower, c.name) {
			return c.hex
		}
	}
	return ""
}
