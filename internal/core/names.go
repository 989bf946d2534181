package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CanonicalName returns the stored form of a product name: trimmed and
// upper-cased with Unicode case rules, so "pão de forma" becomes
// "PÃO DE FORMA".
func CanonicalName(name string) string {
	// Casers are stateful; one per call.
	return cases.Upper(language.Und).String(norm.NFC.String(strings.TrimSpace(name)))
}

// hasLineBreak reports whether name would span lines in an exported CSV.
func hasLineBreak(name string) bool {
	return strings.ContainsAny(name, "\r\n\v\f\u0085\u2028\u2029")
}

// foldAccents lower-cases s and strips combining marks, so "SEÇÃO" and
// "Secao" both become "secao" whether the input was NFC or NFD.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(folded)
}

// headerMentionsSection reports whether a CSV header row names the section
// column in Portuguese or English.
func headerMentionsSection(header []string) bool {
	for _, field := range header {
		f := foldAccents(strings.TrimSpace(field))
		if strings.Contains(f, "secao") || strings.Contains(f, "section") {
			return true
		}
	}
	return false
}
