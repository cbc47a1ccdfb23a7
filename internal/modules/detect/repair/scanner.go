package repair

import "strings"

// The scanner is a three-state machine (normal, in-string, escaped)
// shared by candidate extraction and the textual repairs, so that
// braces and control characters inside quoted strings never confuse
// structural decisions.
type scanState int

const (
	stateNormal scanState = iota
	stateString
	stateEscape
)

// scanObject returns the first top-level balanced-brace object found in
// s. When the object never closes (truncated model output), the
// remainder of the text from the opening brace is returned so the
// repair stages can still work on it. found is false only when the
// text contains no opening brace at all.
func scanObject(s string) (candidate string, found bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	state := stateNormal
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch state {
		case stateString:
			if ch == '\\' {
				state = stateEscape
			} else if ch == '"' {
				state = stateNormal
			}
		case stateEscape:
			state = stateString
		default:
			switch ch {
			case '"':
				state = stateString
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 && ch == '}' {
					return s[start : i+1], true
				}
			}
		}
	}
	return s[start:], true
}

// completeObject re-runs the balanced extraction and, when the object
// is truncated, closes any unterminated string and then every open
// brace or bracket in reverse order. A dangling comma left right
// before the forced closers is dropped.
func completeObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}

	var closers []byte
	state := stateNormal
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch state {
		case stateString:
			if ch == '\\' {
				state = stateEscape
			} else if ch == '"' {
				state = stateNormal
			}
		case stateEscape:
			state = stateString
		default:
			switch ch {
			case '"':
				state = stateString
			case '{':
				closers = append(closers, '}')
			case '[':
				closers = append(closers, ']')
			case '}', ']':
				if len(closers) > 0 && closers[len(closers)-1] == ch {
					closers = closers[:len(closers)-1]
				}
				if len(closers) == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	prefix := s[start:]
	if state != stateNormal {
		prefix += `"`
	}
	prefix = strings.TrimRight(prefix, " \t\r\n")
	prefix = strings.TrimSuffix(prefix, ",")

	var b strings.Builder
	b.WriteString(prefix)
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteByte(closers[i])
	}
	return b.String()
}

// escapeStringNewlines rewrites literal control characters that appear
// inside string literals into their JSON escape sequences.
func escapeStringNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	state := stateNormal
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch state {
		case stateString:
			switch ch {
			case '\\':
				state = stateEscape
				b.WriteByte(ch)
			case '"':
				state = stateNormal
				b.WriteByte(ch)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(ch)
			}
		case stateEscape:
			state = stateString
			b.WriteByte(ch)
		default:
			if ch == '"' {
				state = stateString
			}
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// normalizeBareLiterals rewrites Python-style boolean/null spellings
// (True, False, None) into JSON equivalents, outside string literals
// only and only at word boundaries.
func normalizeBareLiterals(s string) string {
	replacements := map[string]string{
		"True":  "true",
		"False": "false",
		"None":  "null",
	}

	var b strings.Builder
	b.Grow(len(s))

	state := stateNormal
	for i := 0; i < len(s); {
		ch := s[i]
		switch state {
		case stateString:
			if ch == '\\' {
				state = stateEscape
			} else if ch == '"' {
				state = stateNormal
			}
			b.WriteByte(ch)
			i++
		case stateEscape:
			state = stateString
			b.WriteByte(ch)
			i++
		default:
			if ch == '"' {
				state = stateString
				b.WriteByte(ch)
				i++
				continue
			}
			replaced := false
			for word, repl := range replacements {
				if strings.HasPrefix(s[i:], word) &&
					!isWordChar(byteAt(s, i-1)) &&
					!isWordChar(byteAt(s, i+len(word))) {
					b.WriteString(repl)
					i += len(word)
					replaced = true
					break
				}
			}
			if !replaced {
				b.WriteByte(ch)
				i++
			}
		}
	}
	return b.String()
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func isWordChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
