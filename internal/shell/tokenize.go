package shell

import "strings"

// Tokenize splits a command line on unquoted spaces. Single and double quotes
// group literal text; a quote closes only on the same character that opened
// it, and an unterminated quote runs to the end of the line.
func Tokenize(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   byte
	)

	// Quotes and spaces are ASCII, so walking bytes passes any other byte
	// through untouched, including invalid UTF-8.
	for i := 0; i < len(line); i++ {
		r := line[i]
		switch {
		case (r == '"' || r == '\'') && (quote == 0 || r == quote):
			if quote == 0 {
				quote = r
			} else {
				quote = 0
			}
		case r == ' ' && quote == 0:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
