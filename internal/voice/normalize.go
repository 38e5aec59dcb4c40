package voice

import (
	"strings"
	"unicode"
)

// token is a maximal run of either word characters (letters and combining
// marks) or everything else. Only word tokens take part in phrase matching.
type token struct {
	text string
	word bool
}

// rule replaces a whole-word phrase with literal text.
type rule struct {
	phrase      []string
	replacement string
}

// phase is a set of alternatives tried left to right at every position; the
// first alternative that matches wins.
type phase []rule

func newPhase(replacement string, phrases ...string) phase {
	out := make(phase, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, rule{phrase: strings.Fields(p), replacement: replacement})
	}
	return out
}

func concat(phases ...phase) phase {
	var out phase
	for _, p := range phases {
		out = append(out, p...)
	}
	return out
}

// phases run in order; each one sees the output of the previous.
var phases = []phase{
	lexiconPhase(),
	concat(
		newPhase("", "positivo"),
		newPhase("-", "negativo"),
		newPhase(" ", "e"),
	),
	newPhase("*", "vezes", "multiplicado por", "x"),
	newPhase("/", "dividido por", "sobre"),
	newPhase("+", "mais", "adicionado a"),
	newPhase("-", "menos", "subtraído de", "subtraido de"),
	newPhase("/100", "por cento"),
	newPhase(".", "vírgula", "virgula", "ponto"),
}

func lexiconPhase() phase {
	words := LexiconWords()
	out := make(phase, 0, len(words))
	for _, w := range words {
		out = append(out, rule{phrase: []string{w}, replacement: numberWords[w]})
	}
	return out
}

// Normalize rewrites a spoken arithmetic phrase into a symbolic expression
// made only of digits and the characters + - * / ( ) and '.'. Words that do
// not map to anything are dropped, so a transcript without math content
// yields the empty string.
func Normalize(transcript string) string {
	tokens := tokenize(strings.ToLower(transcript))
	for _, p := range phases {
		tokens = p.apply(tokens)
	}
	return stripNonMath(tokens)
}

func (p phase) apply(tokens []token) []token {
	out := make([]token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if tokens[i].word {
			if r, n, ok := p.match(tokens, i); ok {
				out = append(out, token{text: r.replacement})
				i += n
				continue
			}
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

// match reports the first rule whose phrase starts at tokens[i] and how many
// tokens it consumes.
func (p phase) match(tokens []token, i int) (rule, int, bool) {
	for _, r := range p {
		if n, ok := matchPhrase(tokens, i, r.phrase); ok {
			return r, n, true
		}
	}
	return rule{}, 0, false
}

// matchPhrase checks that the phrase words appear at tokens[i:] as words
// separated by whitespace only.
func matchPhrase(tokens []token, i int, phrase []string) (int, bool) {
	pos := i
	for k, w := range phrase {
		if k > 0 {
			if pos >= len(tokens) || tokens[pos].word || strings.TrimSpace(tokens[pos].text) != "" {
				return 0, false
			}
			pos++
		}
		if pos >= len(tokens) || !tokens[pos].word || tokens[pos].text != w {
			return 0, false
		}
		pos++
	}
	return pos - i, true
}

func tokenize(s string) []token {
	var tokens []token
	var b strings.Builder
	inWord := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, token{text: b.String(), word: inWord})
			b.Reset()
		}
	}
	for _, r := range s {
		w := isWordRune(r)
		if w != inWord {
			flush()
			inWord = w
		}
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r)
}

func stripNonMath(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		for _, r := range t.text {
			if isMathRune(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func isMathRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '+', '-', '*', '/', '(', ')', '.':
		return true
	}
	return false
}

// IsMathExpression reports whether s is non-empty and made only of
// characters a normalized expression may contain.
func IsMathExpression(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isMathRune(r) {
			return false
		}
	}
	return true
}
