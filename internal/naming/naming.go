// Package naming maps schema identifiers to native identifiers.
//
// Normalize mode rewrites type and variant names to UpperCamel, field names
// to lowerCamel and constants to UPPER_UNDERSCORE. Hyphens, legal inside
// schema identifiers, separate words, as do case steps and acronym ends.
// Names already in the target form are returned unchanged, so normalizing
// twice is the same as normalizing once.
// Verbatim mode passes names through.
package naming

import (
	"fmt"
	"strings"

	"github.com/viant/tagly/format/text"
)

// Mode selects how identifiers are rewritten.
type Mode int

const (
	Normalize Mode = iota
	Verbatim
)

func (m Mode) String() string {
	switch m {
	case Normalize:
		return "normalize"
	case Verbatim:
		return "verbatim"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "normalize" or "verbatim".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "normalize", "":
		return Normalize, nil
	case "verbatim":
		return Verbatim, nil
	}
	return Normalize, fmt.Errorf("unknown naming mode %q", s)
}

// Type names a definition.
func (m Mode) Type(name string) string {
	return m.convert(name, text.CaseFormatUpperCamel)
}

// Variant names an enumeration item or a choice alternative.
func (m Mode) Variant(name string) string {
	return m.convert(name, text.CaseFormatUpperCamel)
}

// Field names a struct member.
func (m Mode) Field(name string) string {
	return m.convert(name, text.CaseFormatLowerCamel)
}

// Constant names a named number.
func (m Mode) Constant(name string) string {
	return m.convert(name, text.CaseFormatUpperUnderscore)
}

// Join names a definition hoisted out of member of enclosing. The
// enclosing name is already a native name and is used as-is; in verbatim
// mode only the first letter of member is raised.
func (m Mode) Join(enclosing, member string) string {
	if m == Verbatim {
		return enclosing + upperFirst(member)
	}
	return enclosing + m.Type(member)
}

func (m Mode) convert(name string, target text.CaseFormat) string {
	if m == Verbatim || inForm(name, target) {
		return name
	}
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	switch target {
	case text.CaseFormatUpperUnderscore:
		for i, w := range words {
			words[i] = strings.ToUpper(w)
		}
		return strings.Join(words, "_")
	case text.CaseFormatLowerCamel:
		for i, w := range words {
			if i == 0 {
				words[i] = strings.ToLower(w)
			} else {
				words[i] = text.ToTitle(w)
			}
		}
	default:
		for i, w := range words {
			words[i] = text.ToTitle(w)
		}
	}
	return strings.Join(words, "")
}

// inForm reports whether name already reads as target.
func inForm(name string, target text.CaseFormat) bool {
	if name == "" {
		return true
	}
	switch target {
	case text.CaseFormatLowerCamel:
		if !isLower(name[0]) {
			return false
		}
	default:
		if !isUpper(name[0]) {
			return false
		}
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		switch {
		case isDigit(c), isUpper(c):
		case isLower(c):
			if target == text.CaseFormatUpperUnderscore {
				return false
			}
		case c == '_':
			if target != text.CaseFormatUpperUnderscore {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// splitWords breaks name at anything that is not a letter or digit, where
// a lower-case letter or digit meets an upper-case one, and before the last
// capital of a run that continues in lower case ("HTTPServer" is "HTTP",
// "Server"). Digits stay with the word before them.
func splitWords(name string) []string {
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, name[start:end])
		}
		start = -1
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case isUpper(c):
			if start >= 0 {
				prev := name[i-1]
				if isLower(prev) || isDigit(prev) ||
					(isUpper(prev) && i+1 < len(name) && isLower(name[i+1])) {
					flush(i)
				}
			}
		case isLower(c), isDigit(c):
		default:
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(name))
	return words
}

func upperFirst(s string) string {
	if s == "" || !isLower(s[0]) {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
