package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lower-cases text and splits it into word tokens, dropping
// single-character runs.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	lowered := cases.Lower(language.Und).String(text)
	tokens := tokenPattern.FindAllString(lowered, -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// NGrams joins contiguous runs of tokens for every n in [minN, maxN].
// Unigrams come first, then bigrams, and so on.
func NGrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	if minN == 1 && maxN == 1 {
		return append([]string(nil), tokens...)
	}
	out := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		if n > len(tokens) {
			break
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
