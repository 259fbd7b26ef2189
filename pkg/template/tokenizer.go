package template

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// token is one span of a scanned string: either literal text or the trimmed
// body of a {{ ... }} placeholder.
type token struct {
	text        string
	placeholder bool
}

// tokenize splits s into literal and placeholder tokens. An opening delimiter
// with no matching close is treated as literal text rather than an error, so
// plain prose containing braces passes through unchanged.
func tokenize(s string) []token {
	var tokens []token
	for {
		start := strings.Index(s, openDelim)
		if start < 0 {
			break
		}
		end := strings.Index(s[start+len(openDelim):], closeDelim)
		if end < 0 {
			break
		}
		if start > 0 {
			tokens = append(tokens, token{text: s[:start]})
		}
		body := s[start+len(openDelim) : start+len(openDelim)+end]
		tokens = append(tokens, token{text: strings.TrimSpace(body), placeholder: true})
		s = s[start+len(openDelim)+end+len(closeDelim):]
	}
	if s != "" {
		tokens = append(tokens, token{text: s})
	}
	return tokens
}

// hasPlaceholder reports whether s contains at least one complete placeholder.
func hasPlaceholder(s string) bool {
	start := strings.Index(s, openDelim)
	if start < 0 {
		return false
	}
	return strings.Contains(s[start+len(openDelim):], closeDelim)
}
