package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords carry no identifying signal in bank and ledger descriptions.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "of": {}, "for": {}, "to": {}, "at": {},
	"payment": {}, "inc": {}, "llc": {}, "ltd": {}, "co": {}, "corp": {},
	"subscription": {}, "purchase": {}, "pos": {}, "debit": {}, "credit": {}, "card": {},
	"ach": {}, "online": {}, "transfer": {},
}

// foldText removes diacritics and case so "Café" and "CAFE" compare equal.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	// Casers are stateful; one per call keeps scoring safe across goroutines.
	return cases.Fold().String(folded)
}

// tokenize splits a description into its set of significant words.
func tokenize(s string) map[string]struct{} {
	words := strings.FieldsFunc(foldText(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// normalizedDescription is the folded, stopword-free form used for tie-breaking.
func normalizedDescription(s string) string {
	words := strings.FieldsFunc(foldText(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// jaccard is |a ∩ b| / |a ∪ b|, and 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
