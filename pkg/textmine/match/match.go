// Package match decides whether a keyword occurs in a free-text field.
//
// Matching is always case-insensitive: Dutch clinical abbreviations are
// written in every capitalization imaginable, so case sensitivity is not
// user-configurable. Multi-word keywords are matched as literal contiguous
// phrases; in whole-word mode the word-boundary rule applies at both ends
// of the phrase.
package match

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/internalerr"
)

// Mode selects the keyword matching policy.
type Mode int

const (
	// WholeWord requires the keyword to be bounded by non-word characters
	// or string boundaries, never embedded in a larger word.
	WholeWord Mode = iota
	// Substring matches the keyword anywhere, including inside larger words.
	Substring
)

// String returns the mode's configuration name.
func (m Mode) String() string {
	switch m {
	case WholeWord:
		return "whole-word"
	case Substring:
		return "substring"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whole-word", "wholeword", "word", "":
		return WholeWord, nil
	case "substring", "sub":
		return Substring, nil
	default:
		return WholeWord, fmt.Errorf("%w: unknown match mode %q", internalerr.ErrInvalidConfig, s)
	}
}

// Keyword is a user-supplied search term, validated and case-folded once
// at configuration time.
type Keyword struct {
	// Raw is the keyword as entered, whitespace-trimmed. It names the
	// keyword's output column.
	Raw string

	folded string
}

// NewKeyword trims and folds a single keyword. Empty or whitespace-only
// input is a configuration error.
func NewKeyword(raw string) (Keyword, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Keyword{}, fmt.Errorf("%w: empty keyword %q", internalerr.ErrInvalidConfig, raw)
	}
	return Keyword{Raw: trimmed, folded: strings.ToLower(trimmed)}, nil
}

// NewKeywordSet validates a keyword list: every keyword must be non-empty
// after trimming, the list itself must be non-empty, and case-insensitive
// duplicates collapse to the first occurrence. Entry order is preserved
// and defines the output column order.
func NewKeywordSet(raw []string) ([]Keyword, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: keyword list is empty", internalerr.ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]Keyword, 0, len(raw))
	for i, r := range raw {
		kw, err := NewKeyword(r)
		if err != nil {
			return nil, fmt.Errorf("%w: keyword %d is empty", internalerr.ErrInvalidConfig, i+1)
		}
		if _, dup := seen[kw.folded]; dup {
			continue
		}
		seen[kw.folded] = struct{}{}
		out = append(out, kw)
	}
	return out, nil
}

// Matches reports whether the keyword occurs in text under the given mode.
// Empty text never matches and never errors.
func Matches(text string, kw Keyword, mode Mode) bool {
	if text == "" || kw.folded == "" {
		return false
	}

	folded := strings.ToLower(text)
	if mode == Substring {
		return strings.Contains(folded, kw.folded)
	}
	return containsWholeWord(folded, kw.folded)
}

// containsWholeWord scans every occurrence of needle in haystack and
// accepts the first one bounded by non-word runes or string edges.
func containsWholeWord(haystack, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		if boundaryBefore(haystack, idx) && boundaryAfter(haystack, idx+len(needle)) {
			return true
		}
		start = idx + 1
	}
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return !isWordRune(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return !isWordRune(r)
}

// isWordRune mirrors the tokenizer's word class so boundary decisions and
// tokenization agree on what a word is.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
