package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noiseWords are dropped from area labels before matching (compared after folding)
var noiseWords = map[string]bool{
	"alan":  true,
	"gorev": true,
	"birim": true,
	"ve":    true,
	"ile":   true,
	"veya":  true,
	"and":   true,
	"or":    true,
}

// foldText strips diacritics and lowercases s. Turkish dotless ı folds to i so
// that "YEŞİL", "yeşil" and "yesil" compare equal.
func foldText(s string) string {
	// Transformers carry state, so build a fresh chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, stripped)
	return cases.Lower(language.Und).String(stripped)
}

// Tokens returns the folded, noise-free tokens of an area label
func Tokens(label string) []string {
	fields := strings.FieldsFunc(foldText(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if noiseWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// NormalizeLabel folds an area label into its canonical comparable form
func NormalizeLabel(label string) string {
	return strings.Join(Tokens(label), " ")
}

// NormalizeCode folds a shift code: diacritics stripped, upper case, no spaces
func NormalizeCode(code string) string {
	folded := foldText(code)
	folded = strings.Join(strings.Fields(folded), "")
	return strings.ToUpper(folded)
}

// areaMatcher holds a person's pre-normalized area tags
type areaMatcher struct {
	labels []string
	tokens map[string]bool
}

func newAreaMatcher(areas []string) areaMatcher {
	m := areaMatcher{tokens: make(map[string]bool)}
	for _, area := range areas {
		toks := Tokens(area)
		if len(toks) == 0 {
			continue
		}
		m.labels = append(m.labels, strings.Join(toks, " "))
		for _, tok := range toks {
			m.tokens[tok] = true
		}
	}
	return m
}

// matches reports whether the slot label (given as tokens) fits these areas
func (m areaMatcher) matches(slotTokens []string) bool {
	// Nothing to check against
	if len(m.labels) == 0 || len(slotTokens) == 0 {
		return true
	}

	slotLabel := strings.Join(slotTokens, " ")
	for _, label := range m.labels {
		if label == slotLabel || strings.Contains(label, slotLabel) || strings.Contains(slotLabel, label) {
			return true
		}
	}

	hits := 0
	for _, tok := range slotTokens {
		if m.tokens[tok] {
			hits++
		}
	}
	return hits*2 >= len(slotTokens)
}

// AreaMatches reports whether a person with the given area tags may work a
// slot labelled slotLabel
func AreaMatches(areas []string, slotLabel string) bool {
	return newAreaMatcher(areas).matches(Tokens(slotLabel))
}
