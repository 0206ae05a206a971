// Package changes maps text diff hunks back onto the fragments they touch.
//
// [Project] walks the hunks of a [textdiff] result together with both
// flattened documents. Equal hunks only advance the read offsets. A hunk that
// exists on one side marks every fragment of that side it overlaps, ignoring
// whitespace at either end of the hunk, and also marks the fragments around
// the corresponding insertion point on the other side.
//
// Fragments are visited through forward-only cursors: a fragment that has
// been passed or reported is never looked at again, so every fragment is
// reported at most once and the whole walk is linear in the number of hunks
// and fragments.
//
// The result is a list of [model.Change] entries where runs of changed
// fragments are separated by exactly one separator:
//
//	hunks, _ := textdiff.Diff(left.Text, right.Text)
//	list, err := changes.Project(hunks, left, right)
//
// [Simplify] optionally merges neighboring boxes on the same line so that a
// viewer draws one rectangle per changed phrase instead of one per word.
package changes
