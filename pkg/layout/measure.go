package layout

import "strings"

// advanceRatio is the horizontal advance of one rune as a fraction of the
// text size. A fixed ratio stands in for font metrics: it keeps layout
// identical on every platform, which the relayout loop and cache keys
// depend on.
const advanceRatio = 0.5

// textWidth measures a line of text at the given size.
func textWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * advanceRatio
}

// wrapText breaks text into lines no wider than width, greedily by word.
// Words wider than a full line are split mid-word.
func wrapText(text string, size, width float64) []string {
	maxRunes := int(width / (size * advanceRatio))
	if maxRunes < 1 {
		maxRunes = 1
	}

	var lines []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, string(current))
			current = current[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)

		// Split words that can never fit on one line.
		for len(runes) > maxRunes {
			flush()
			lines = append(lines, string(runes[:maxRunes]))
			runes = runes[maxRunes:]
		}

		switch {
		case len(current) == 0:
			current = append(current, runes...)
		case len(current)+1+len(runes) <= maxRunes:
			current = append(current, ' ')
			current = append(current, runes...)
		default:
			flush()
			current = append(current, runes...)
		}
	}
	flush()

	if lines == nil {
		lines = []string{""}
	}
	return lines
}
