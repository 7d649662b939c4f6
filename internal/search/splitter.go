package search

import "strings"

// SplitTopLevel splits s on commas that are not inside quotes or
// brackets. A running depth counter tracks ()[]{} nesting and a quote
// toggle tracks "'` quoting; commas inside either never split. It is
// shared by the combined-list and compound strategies so both see the
// same segmentation.
//
// Segments are returned untrimmed; callers decide how to normalize.
func SplitTopLevel(s string) []string {
	var segs []string
	var b strings.Builder
	depth := 0
	inQuote := false
	var quote rune

	for _, r := range s {
		switch {
		case inQuote:
			if r == quote {
				inQuote = false
			}
			b.WriteRune(r)
		case r == '"' || r == '\'' || r == '`':
			inQuote = true
			quote = r
			b.WriteRune(r)
		case r == '(' || r == '[' || r == '{':
			depth++
			b.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
			b.WriteRune(r)
		case r == ',' && depth == 0:
			segs = append(segs, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	segs = append(segs, b.String())

	return segs
}

// splitTopLevelTrimmed returns the non-empty, space-trimmed top-level
// comma segments of s.
func splitTopLevelTrimmed(s string) []string {
	raw := SplitTopLevel(s)
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		if t := strings.TrimSpace(seg); t != "" {
			out = append(out, t)
		}
	}
	return out
}
