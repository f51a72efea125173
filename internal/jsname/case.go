package jsname

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// CamelCase lower-cases the leading capital run of a declared name:
// "Name" becomes "name", "XMLReader" becomes "xmlReader", "ID" becomes "id".
// Names that are all capitals and longer than one rune stay unchanged, as do
// names that do not start with a capital.
func CamelCase(s string) string {
	if s == "" {
		return s
	}
	if s == "ID" {
		return "id"
	}
	runes := []rune(s)
	if !unicode.IsUpper(runes[0]) {
		return s
	}
	if len(runes) == 1 {
		return lower.String(s)
	}
	allUpper := true
	for _, r := range runes {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			allUpper = false
			break
		}
	}
	if allUpper {
		return s
	}
	run := 0
	for run < len(runes) && unicode.IsUpper(runes[run]) {
		run++
	}
	n := 1
	if run > 1 {
		n = run - 1
	}
	head := string(runes[:n])
	return lower.String(head) + s[len(head):]
}
