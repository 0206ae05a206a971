package textdiff

import (
	"fmt"
	"strings"
)

// Granularity selects the unit the token tier diffs over.
type Granularity int

const (
	// Word splits text into UAX #29 word segments: words, runs of spaces and
	// individual punctuation marks each become one token.
	Word Granularity = iota
	// Line splits text after every newline.
	Line
	// Character makes every rune its own token.
	Character
)

// String returns the configuration name of the granularity.
func (g Granularity) String() string {
	switch g {
	case Word:
		return "word"
	case Line:
		return "line"
	case Character:
		return "character"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity parses a granularity name. Matching ignores case.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word", "words":
		return Word, nil
	case "line", "lines":
		return Line, nil
	case "character", "characters", "char", "chars":
		return Character, nil
	default:
		return Word, fmt.Errorf("unknown granularity %q (want word, line or character)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
