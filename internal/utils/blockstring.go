package utils

import "strings"

// DedentBlockStringLines removes the common indentation of every line but
// the first and drops leading and trailing blank lines, as required for the
// value of a block string.
func DedentBlockStringLines(lines []string) []string {
	commonIndent := -1
	firstNonEmpty, lastNonEmpty := -1, -1
	for i, line := range lines {
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue
		}
		if firstNonEmpty == -1 {
			firstNonEmpty = i
		}
		lastNonEmpty = i
		if i != 0 && (commonIndent == -1 || indent < commonIndent) {
			commonIndent = indent
		}
	}
	if firstNonEmpty == -1 {
		return []string{}
	}
	out := make([]string, 0, lastNonEmpty-firstNonEmpty+1)
	for i := firstNonEmpty; i <= lastNonEmpty; i++ {
		line := lines[i]
		if i != 0 && commonIndent > 0 {
			if len(line) > commonIndent {
				line = line[commonIndent:]
			} else {
				line = ""
			}
		}
		out = append(out, line)
	}
	return out
}

// BlockStringValue turns the raw content between triple quotes into the
// string value of the token.
func BlockStringValue(raw string) string {
	return strings.Join(DedentBlockStringLines(SplitLines(raw)), "\n")
}

// PrintBlockString renders value as a block string that lexes back to the
// same value.
func PrintBlockString(value string, minimize bool) string {
	escaped := strings.ReplaceAll(value, `"""`, `\"""`)
	lines := SplitLines(escaped)
	singleLine := len(lines) == 1

	forceLeadingNewLine := len(lines) > 1
	for _, line := range lines[1:] {
		if len(line) > 0 && !isWhiteSpace(line[0]) {
			forceLeadingNewLine = false
			break
		}
	}

	hasTrailingTripleQuotes := strings.HasSuffix(escaped, `\"""`)
	hasTrailingQuote := strings.HasSuffix(value, `"`) && !hasTrailingTripleQuotes
	hasTrailingSlash := strings.HasSuffix(value, `\`)
	forceTrailingNewLine := hasTrailingQuote || hasTrailingSlash

	printAsMultipleLines := !minimize &&
		(!singleLine || len(value) > 70 || forceTrailingNewLine || forceLeadingNewLine || hasTrailingTripleQuotes)

	var b strings.Builder
	b.WriteString(`"""`)
	skipLeadingNewLine := singleLine && len(value) > 0 && isWhiteSpace(value[0])
	if (printAsMultipleLines && !skipLeadingNewLine) || forceLeadingNewLine {
		b.WriteByte('\n')
	}
	b.WriteString(escaped)
	if printAsMultipleLines || forceTrailingNewLine {
		b.WriteByte('\n')
	}
	b.WriteString(`"""`)
	return b.String()
}

// SplitLines splits on \r\n, \n and \r.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func leadingWhitespace(s string) int {
	i := 0
	for i < len(s) && isWhiteSpace(s[i]) {
		i++
	}
	return i
}

func isWhiteSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
