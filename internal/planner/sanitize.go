package planner

import (
	"regexp"
	"strings"
)

// Model output is JSON in spirit but not in syntax: elided content is marked
// with ellipsis tokens, comments sneak in, trailing commas abound, and long
// string values sometimes contain raw newlines. Sanitize fixes the first
// three; repairControlChars is the one-shot fallback for the last.

var (
	// "[...]" / "{...}" placeholders, possibly spanning lines, meaning
	// "elided by the model" — not real data. The Unicode ellipsis shows up too.
	elidedArray  = regexp.MustCompile(`\[\s*(?:\.\.\.|…)\s*\]`)
	elidedObject = regexp.MustCompile(`\{\s*(?:\.\.\.|…)\s*\}`)
)

// Sanitize applies the pre-parse cleanup steps in order. Every step is
// idempotent, so sanitizing already-sanitized text is a no-op.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = elidedArray.ReplaceAllString(s, "[]")
	s = elidedObject.ReplaceAllString(s, "{}")
	s = stripComments(s)
	s = stripTrailingCommas(s)
	return s
}

// stripComments removes // line comments and /* */ block comments.
// It tracks double-quoted string state so "https://example.com" survives.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // skip the trailing '/'
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas that sit (possibly across whitespace)
// immediately before a closing } or ]. String-aware for the same reason as
// stripComments.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma, keep the whitespace and bracket
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// repairControlChars escapes bare newlines, tabs, and carriage returns that
// appear unescaped inside string values. Called once, only after a parse of
// the sanitized text has already failed.
func repairControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}
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
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
