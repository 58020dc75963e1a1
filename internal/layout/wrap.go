package layout

import "strings"

// wrapText greedily packs words into lines of at most max runes. Words longer
// than max are split.
func wrapText(s string, max int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur []rune
	for _, word := range words {
		w := []rune(word)
		for len(w) > max {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:max]))
			w = w[max:]
		}
		switch {
		case len(w) == 0:
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= max:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), w...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
