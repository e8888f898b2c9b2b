// Package authors parses free-form author name strings into normalized,
// abbreviated forms: "Gauss CF" and "C.F. Gauss" both become "C. F. Gauss".
package authors

import (
	"regexp"
	"strings"
)

// Name is one parsed author.
type Name struct {
	Display    string // abbreviated rendering, e.g. "C. F. Gauss"
	Simplified string // lower-cased, diacritic-folded comparison key
	Given      string
	Family     string
}

// Particle tokens excluded from abbreviation.
var (
	suffixes     = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "Jr.", "Sr."}
	prefixes     = []string{"Dr."}
	prepositions = []string{"van", "von", "der", "de", "den"}
)

// A run of two or more dotted initials glued together ("C.F.").
var gluedInitials = regexp.MustCompile(`^(?:[A-Z]\.){2,}$`)

// Parse turns one raw author string into a Name. It reports false for an
// empty token (e.g. a doubled comma in the source list), which contributes
// no author.
func Parse(raw string) (Name, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Name{}, false
	}

	// math-mode marker: abbreviating would corrupt the formula
	if strings.Contains(raw, "$") {
		return Name{
			Display:    raw,
			Simplified: Simplify(raw),
			Family:     raw,
		}, true
	}

	names := tokenize(raw)

	// a short trailing token in all capitals is a run of initials:
	// "Gauss CF" becomes "C. F. Gauss"
	last := names[len(names)-1]
	if len(last) <= 3 && !isSuffix(last) && isAllUpper(last) {
		expanded := make([]string, 0, len(last)+len(names)-1)
		for _, c := range last {
			expanded = append(expanded, string(c)+".")
		}
		names = append(expanded, names[:len(names)-1]...)
	}

	numSuffixes := 0
	for i := len(names) - 1; i >= 0; i-- {
		if !isSuffix(names[i]) {
			break
		}
		numSuffixes++
	}

	// abbreviate every given-name token; family and suffix tokens keep
	// their full form
	for j := 0; j < len(names)-1-numSuffixes; j++ {
		name := names[j]
		if j == 0 && isPrefix(name) {
			continue
		}
		if j > 0 && isPreposition(name) {
			continue
		}
		if len(name) > 2 || (len(name) > 0 && !strings.HasSuffix(name, ".")) {
			names[j] = abbreviate(name)
		}
	}

	numPrepositions := 0
	for _, name := range names {
		if isPreposition(name) {
			numPrepositions++
		}
	}

	display := strings.Join(names, " ")

	// the family portion starts before the prepositions and ends with the
	// suffixes: "van der Berg Jr." stays together
	split := 1 + numSuffixes + numPrepositions
	var given, family string
	if split >= len(names) {
		family = display
	} else {
		given = strings.Join(names[:len(names)-split], " ")
		family = strings.Join(names[len(names)-split:], " ")
	}

	return Name{
		Display:    display,
		Simplified: Simplify(display),
		Given:      given,
		Family:     family,
	}, true
}

// ParseList parses raw author strings in order, skipping empty tokens.
func ParseList(raws []string) []Name {
	var names []Name
	for _, raw := range raws {
		if name, ok := Parse(raw); ok {
			names = append(names, name)
		}
	}
	return names
}

// Join renders an author sequence the way it is stored and displayed:
// "A", "A and B", or "A, B, and C".
func Join(names []Name) string {
	displays := make([]string, len(names))
	for i, n := range names {
		displays[i] = n.Display
	}
	switch len(displays) {
	case 0:
		return ""
	case 1:
		return displays[0]
	case 2:
		return displays[0] + " and " + displays[1]
	default:
		return strings.Join(displays[:len(displays)-1], ", ") + ", and " + displays[len(displays)-1]
	}
}

// Simplify lower-cases a rendered name and folds diacritics for comparison
// purposes. Never used for display.
func Simplify(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "ä", "ae")
	name = strings.ReplaceAll(name, "ö", "oe")
	name = strings.ReplaceAll(name, "ü", "ue")
	name = strings.ReplaceAll(name, "ß", "ss")
	return name
}

// FamilyKey returns the lower-cased, diacritic-folded last family-name token
// with suffixes dropped, suitable as the stem of a citation key.
func (n Name) FamilyKey() string {
	tokens := strings.Fields(n.Family)
	for len(tokens) > 0 && isSuffix(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return ""
	}
	key := Simplify(tokens[len(tokens)-1])
	var b strings.Builder
	for _, r := range key {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tokenize splits on whitespace and breaks glued initials ("C.F.") into
// separate tokens so both spellings of a name normalize identically.
func tokenize(raw string) []string {
	fields := strings.Fields(raw)
	var tokens []string
	for _, f := range fields {
		if gluedInitials.MatchString(f) {
			for _, part := range strings.SplitAfter(f, ".") {
				if part != "" {
					tokens = append(tokens, part)
				}
			}
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func abbreviate(name string) string {
	r := []rune(name)
	if k := strings.Index(name, "-"); k >= 0 {
		rk := []rune(name[:k])
		hyphen := len(rk)
		if hyphen+1 < len(r) {
			return string(r[0]) + ".-" + string(r[hyphen+1]) + "."
		}
	}
	return string(r[0]) + "."
}

func isSuffix(token string) bool      { return contains(suffixes, token) }
func isPrefix(token string) bool      { return contains(prefixes, token) }
func isPreposition(token string) bool { return contains(prepositions, token) }

func contains(list []string, token string) bool {
	for _, s := range list {
		if s == token {
			return true
		}
	}
	return false
}

func isAllUpper(token string) bool {
	for _, r := range token {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return len(token) > 0
}
