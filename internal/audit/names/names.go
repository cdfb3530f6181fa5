// Package names checks person names for invalid or suspicious characters.
package names

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/export"
)

// Rule is the rule name attached to violations.
const Rule = "bad-name"

// allowedPunct lists the non-letter characters a name may contain.
const allowedPunct = " .-()'"

// invalidChars returns the characters of s that are neither letters nor
// allowed punctuation.
func invalidChars(s string) []rune {
	var out []rune
	for _, r := range s {
		if !unicode.IsLetter(r) && !strings.ContainsRune(allowedPunct, r) {
			out = append(out, r)
		}
	}
	return out
}

// hints builds one fix suggestion per character category, plus the code
// points of all offending characters.
func hints(invalid []rune) string {
	parens, apostrophe, dot, printable := true, true, true, true

	var out []string
	codes := make([]string, 0, len(invalid))
	for _, r := range invalid {
		if (r == '（' || r == '）') && parens {
			parens = false
			out = append(out, "Use regular parenthesis")
		}
		if (r == '’' || r == '`') && apostrophe {
			apostrophe = false
			out = append(out, "Use regular apostrophe")
		}
		if r == '·' && dot {
			dot = false
			out = append(out, "Replace by regular dot")
		}
		if (r < 0x20 || r > 0x7e) && printable {
			printable = false
			out = append(out, "Not printable character detected")
		}
		codes = append(codes, fmt.Sprintf("%d", r))
	}
	return strings.Join(out, " - ") + "\tChar codes: " + strings.Join(codes, ", ")
}

// stripLocalName removes a trailing "(local name)" part in proper
// brackets; local names are allowed to use any script.
func stripLocalName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 && strings.HasSuffix(name, ")") {
		return name[:i]
	}
	return name
}

// Check flags every person row whose romanized name contains characters
// outside letters and allowed punctuation, or that is not in NFC form.
func Check(persons []export.Person) []audit.Violation {
	var out []audit.Violation
	for _, p := range persons {
		name := stripLocalName(p.Name)
		if invalid := invalidChars(name); len(invalid) > 0 {
			out = append(out, audit.Violation{
				EntityID:    p.ID,
				Rule:        Rule,
				Description: fmt.Sprintf("%s\t%s\t%s", name, string(invalid), hints(invalid)),
			})
		}
		if p.Name != norm.NFC.String(p.Name) {
			out = append(out, audit.Violation{
				EntityID:    p.ID,
				Rule:        Rule,
				Description: fmt.Sprintf("%s\tname is not NFC-normalized", p.Name),
			})
		}
	}
	return out
}
