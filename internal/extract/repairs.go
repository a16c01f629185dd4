package extract

import (
	"regexp"
	"strings"
)

// A repair transforms malformed JSON text into a closer-to-valid form.
// Repairs are cumulative: each one receives the output of the previous,
// and a parse is attempted after every step.
type repair func(string) string

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

func repairCascade() []repair {
	return []repair{
		stripTrailingCommas,
		normalizeSmartQuotes,
		stripControlChars,
		escapeStrayBackslashes,
		escapeNewlinesInStrings,
	}
}

func stripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

func normalizeSmartQuotes(s string) string {
	replacer := strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
	return replacer.Replace(s)
}

// stripControlChars removes non-printable control characters except the
// whitespace the escape pass below still needs to see.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeStrayBackslashes doubles backslashes that do not start a valid
// JSON escape sequence, as in Windows paths pasted into resume text.
func escapeStrayBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && isEscapeStarter(s[i+1]) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteString(`\\`)
	}
	return b.String()
}

func isEscapeStarter(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}

// escapeNewlinesInStrings replaces raw line breaks and tabs that occur
// inside string literals with their escape sequences. It tracks string
// state so that structural whitespace between tokens is left alone.
func escapeNewlinesInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteByte(c)
			case c == '\\':
				escaped = true
				b.WriteByte(c)
			case c == '"':
				inString = false
				b.WriteByte(c)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(c)
			}
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}
