// Package extract locates a syntactically balanced JSON object inside
// free-form model output. Model completions wrap their JSON in markdown
// fences, prose, or both; this package digs the object out without parsing
// it — syntax repair is the planner package's job.
package extract

import (
	"fmt"
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

const fence = "```"

// JSONObject returns the first balanced {...} span in s.
//
// A fenced code block (``` or ```json) wins if present: its trimmed interior
// is returned as-is. Otherwise the scan starts at the first '{' and walks
// brace depth character by character, tracking double-quoted string state and
// honouring backslash escapes so an escaped quote does not toggle it; braces
// inside strings are ignored. The span ends where depth returns to zero.
//
// Returns domain.ErrExtraction when no balanced object exists.
func JSONObject(s string) (string, error) {
	if inner, ok := fencedBlock(s); ok {
		s = inner
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("extract.JSONObject: %w", domain.ErrExtraction)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("extract.JSONObject: %w", domain.ErrExtraction)
}

// LooseSpan is the last-resort fallback: the substring from the first '{' to
// the last '}', with no balance guarantee. Callers should only reach for this
// after JSONObject has failed, immediately before giving up on the response.
func LooseSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// fencedBlock returns the trimmed interior of the first fenced code block in
// s, if one exists. The opening fence line may carry a language tag (```json).
func fencedBlock(s string) (string, bool) {
	open := strings.Index(s, fence)
	if open < 0 {
		return "", false
	}
	rest := s[open+len(fence):]
	// Drop the rest of the opening fence line (the optional language tag).
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
