// Package textdiff computes an edit script between two flattened documents.
//
// The diff runs in two tiers. The first is a character-granularity diff
// bounded by a time budget. When it comes back with only a handful of hunks
// the budget most likely expired before a useful alignment was found, so the
// result is discarded and the second tier diffs the documents again over
// tokens (words, lines or single characters) with no time limit. Working on
// tokens bounds the problem by token count instead of character count.
//
//	d := textdiff.New(textdiff.DefaultConfig())
//	hunks, err := d.Diff(left.Text, right.Text)
//
// Either way the result satisfies the same contract: the Equal and OnlyLeft
// hunks concatenate to the left text, the Equal and OnlyRight hunks to the
// right text.
package textdiff
