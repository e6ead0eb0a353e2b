package dsl

// tokenizeLine splits one line into whitespace-separated tokens. A
// double-quoted span becomes a single token with its spaces preserved and
// the quotes stripped. No escape sequences; an unterminated quote consumes
// the rest of the line into the current token.
func tokenizeLine(line string) []string {
	var tokens []string
	var current []rune
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"' && !inQuotes:
			inQuotes = true
		case ch == '"' && inQuotes:
			inQuotes = false
			tokens = append(tokens, string(current))
			current = current[:0]
		case ch == ' ' && !inQuotes:
			if len(current) > 0 {
				tokens = append(tokens, string(current))
				current = current[:0]
			}
		default:
			current = append(current, ch)
		}
	}

	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}

	return tokens
}
