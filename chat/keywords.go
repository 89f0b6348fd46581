package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultKeywords mark a message as a medication question. Matching is by
// substring on the lower-cased message, so "dose" also matches "doses".
var DefaultKeywords = []string{
	"medicamento", "remedio", "comprimido", "capsula", "xarope",
	"pomada", "creme", "gel", "solução", "gotas", "injetavel",
	"ibuprofeno", "paracetamol", "dipirona", "omeprazol", "amoxicilina",
	"composição", "indicação", "contraindicação", "posologia", "dose",
	"efeito colateral", "reação adversa", "bula", "princípio ativo",
}

// minTermRunes is the shortest word worth a lookup, exclusive
const minTermRunes = 3

// KeywordMatcher decides whether a message is about medications
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher lower-cases keywords once. An empty set falls back to
// DefaultKeywords.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	lower := cases.Lower(language.BrazilianPortuguese)
	m := &KeywordMatcher{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		if k = strings.TrimSpace(lower.String(k)); k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	return m
}

// Match reports whether any keyword occurs in text
func (m *KeywordMatcher) Match(text string) bool {
	lowered := cases.Lower(language.BrazilianPortuguese).String(text)
	for _, k := range m.keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

// candidateTerms splits text on whitespace and keeps, in order, the
// lower-cased words longer than three characters once surrounding
// punctuation is removed.
func candidateTerms(text string) []string {
	var terms []string
	lower := cases.Lower(language.BrazilianPortuguese)
	for _, word := range strings.Fields(lower.String(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(word) > minTermRunes {
			terms = append(terms, word)
		}
	}
	return terms
}
