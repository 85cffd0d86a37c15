package documents

import "strings"

// wrapText greedily packs words into lines of at most width characters.
// Words longer than width are split across lines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
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
		w := []rune(word)

		for len(w) > width {
			room := width - len(current)
			if len(current) > 0 {
				room-- // separating space
			}
			if room <= 0 {
				flush()
				continue
			}
			if len(current) > 0 {
				current = append(current, ' ')
			}
			current = append(current, w[:room]...)
			w = w[room:]
			flush()
		}

		switch {
		case len(current) == 0:
			current = append(current, w...)
		case len(current)+1+len(w) <= width:
			current = append(current, ' ')
			current = append(current, w...)
		default:
			flush()
			current = append(current, w...)
		}
	}
	flush()

	return lines
}
