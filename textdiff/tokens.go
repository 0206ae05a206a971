package textdiff

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// ErrTokenAlphabet is returned when two documents hold more distinct tokens
// than there are runes to encode them with.
var ErrTokenAlphabet = errors.New("textdiff: too many distinct tokens to encode")

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF

	// maxTokens is the number of valid runes, excluding the surrogate block.
	maxTokens = utf8.MaxRune + 1 - (surrogateMax - surrogateMin + 1)
)

// tokenize splits s into tokens whose concatenation is s.
func tokenize(s string, g Granularity) []string {
	if s == "" {
		return nil
	}

	switch g {
	case Line:
		tokens := strings.SplitAfter(s, "\n")
		if tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1]
		}
		return tokens
	case Character:
		tokens := make([]string, 0, utf8.RuneCountInString(s))
		for len(s) > 0 {
			_, size := utf8.DecodeRuneInString(s)
			tokens = append(tokens, s[:size])
			s = s[size:]
		}
		return tokens
	default:
		var tokens []string
		iter := words.FromString(s)
		for iter.Next() {
			tokens = append(tokens, iter.Value())
		}
		return tokens
	}
}

// tokenTable assigns each distinct token one rune, in order of first
// appearance. A table lives for a single diff call and is shared by both
// sides so that equal tokens get equal codes.
type tokenTable struct {
	codes  map[string]rune
	tokens []string
}

func newTokenTable() *tokenTable {
	return &tokenTable{codes: make(map[string]rune)}
}

// encode maps tokens to their codes, growing the table as needed.
func (t *tokenTable) encode(tokens []string) ([]rune, error) {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		code, ok := t.codes[tok]
		if !ok {
			if len(t.tokens) >= maxTokens {
				return nil, ErrTokenAlphabet
			}
			code = codeFor(len(t.tokens))
			t.codes[tok] = code
			t.tokens = append(t.tokens, tok)
		}
		out[i] = code
	}
	return out, nil
}

// decode expands a string of codes back into the tokens they stand for.
func (t *tokenTable) decode(codes string) string {
	var sb strings.Builder
	for _, code := range codes {
		sb.WriteString(t.tokens[indexFor(code)])
	}
	return sb.String()
}

// codeFor returns the rune for token index i, skipping surrogates, which
// cannot survive a round trip through a Go string.
func codeFor(i int) rune {
	if i >= surrogateMin {
		return rune(i + (surrogateMax - surrogateMin + 1))
	}
	return rune(i)
}

func indexFor(r rune) int {
	if r > surrogateMax {
		return int(r) - (surrogateMax - surrogateMin + 1)
	}
	return int(r)
}
