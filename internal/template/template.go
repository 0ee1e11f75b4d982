// Package template implements safe dollar-placeholder substitution.
//
// The syntax is $name, ${name} and $$ for a literal dollar sign. Names are
// ASCII identifiers. Unknown names and malformed placeholders are copied to
// the output untouched, so substitution never fails.
package template

import "strings"

// SafeSubstitute replaces every known placeholder in text with its value from params.
func SafeSubstitute(text string, params map[string]string) string {
	if !strings.Contains(text, "$") {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	scan(text, func(tok token) {
		switch tok.kind {
		case tokLiteral:
			sb.WriteString(tok.raw)
		case tokEscape:
			sb.WriteByte('$')
		case tokName:
			if v, ok := params[tok.name]; ok {
				sb.WriteString(v)
			} else {
				sb.WriteString(tok.raw)
			}
		}
	})
	return sb.String()
}

// Placeholders lists the distinct names referenced by text, in order of first use.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	scan(text, func(tok token) {
		if tok.kind == tokName && !seen[tok.name] {
			seen[tok.name] = true
			names = append(names, tok.name)
		}
	})
	return names
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokEscape
	tokName
)

type token struct {
	kind tokenKind
	raw  string
	name string
}

func scan(text string, emit func(token)) {
	start := 0
	for i := 0; i < len(text); {
		if text[i] != '$' {
			i++
			continue
		}
		if start < i {
			emit(token{kind: tokLiteral, raw: text[start:i]})
		}
		tok, width := placeholderAt(text[i:])
		emit(tok)
		i += width
		start = i
	}
	if start < len(text) {
		emit(token{kind: tokLiteral, raw: text[start:]})
	}
}

// placeholderAt reads the placeholder at the start of s, which begins with '$'.
func placeholderAt(s string) (token, int) {
	if len(s) > 1 && s[1] == '$' {
		return token{kind: tokEscape, raw: "$$"}, 2
	}
	if len(s) > 1 && s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end > 2 && isIdent(s[2:end]) {
			return token{kind: tokName, raw: s[:end+1], name: s[2:end]}, end + 1
		}
		return token{kind: tokLiteral, raw: "$"}, 1
	}
	n := identLen(s[1:])
	if n == 0 {
		return token{kind: tokLiteral, raw: "$"}, 1
	}
	return token{kind: tokName, raw: s[:n+1], name: s[1 : n+1]}, n + 1
}

func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || (i > 0 && '0' <= c && c <= '9') {
			continue
		}
		return i
	}
	return len(s)
}

func isIdent(s string) bool {
	return s != "" && identLen(s) == len(s)
}
