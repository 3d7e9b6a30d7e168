package utils

import "errors"

var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject returns the first top-level balanced {...} substring
// of free text. Model responses wrap requested JSON in prose or code
// fences, so the caller parses what this finds rather than the whole
// reply. Brace counting ignores braces inside string literals.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", ErrNoJSONObject
}
