package ingest

import (
	"strings"
	"unicode"
)

// Tokenizer splits free text into normalized word tokens.
//
// A token is a maximal run of word characters, lowercased. Word characters
// are Unicode letters (accented Dutch characters included) and, unless
// DigitsAsSeparators is set, Unicode digits. Everything else, including
// invalid byte sequences (which decode to the replacement rune), separates
// tokens.
type Tokenizer struct {
	// DigitsAsSeparators treats digits like punctuation instead of word
	// characters, so "type2diabetes" becomes ["type", "diabetes"].
	DigitsAsSeparators bool
}

// NewTokenizer creates a tokenizer with the default alphanumeric word class.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into lowercase tokens. Empty or whitespace-only
// input yields nil, never an error.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if t.isWordRune(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func (t *Tokenizer) isWordRune(r rune) bool {
	if unicode.IsLetter(r) {
		return true
	}
	return !t.DigitsAsSeparators && unicode.IsNumber(r)
}
