package jsname

import (
	"strings"
	"unicode"
)

var reserved = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		break case catch continue debugger default delete do else finally for
		function if in instanceof new return switch this throw try typeof var
		void while with
		class const enum export extends import super
		implements interface let package private protected public static yield
		null true false
		arguments eval undefined NaN Infinity`) {
		reserved[w] = struct{}{}
	}
}

// IsReservedWord reports whether s may not be used as a binding name.
func IsReservedWord(s string) bool {
	_, ok := reserved[s]
	return ok
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

// IsValidIdentifier reports whether s is a legal, non-reserved identifier.
func IsValidIdentifier(s string) bool {
	if s == "" || IsReservedWord(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// IsValidNestedIdentifier reports whether s is a dot-separated path of
// legal identifiers, as accepted for explicit type names.
func IsValidNestedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !IsValidIdentifier(part) {
			return false
		}
	}
	return true
}

// Sanitize maps an arbitrary string onto identifier characters, replacing
// every illegal rune with '_'.
func Sanitize(s string) string {
	var b strings.Builder
	for i, r := range s {
		ok := isIdentPart(r)
		if i == 0 {
			ok = isIdentStart(r)
		}
		if ok {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
