// Package model defines the data shared by every stage of a comparison.
//
// # Input
//
// Extraction collaborators hand over a document as a list of [Page] values,
// each holding [TextItem]s in reading order. Boxes are [BBox] values already
// transformed into device space (top-left origin, Y grows downward).
//
// # Fragments
//
// The flattening stage turns every non-empty text item into a [Fragment]:
// normalized text, its offset in the document's flattened text, the page it
// lives on and the [Source] document it belongs to. Offsets and lengths are
// counted in runes.
//
// # Change Lists
//
// A comparison produces a list of [Change] entries. An entry is either a
// changed fragment or a separator marking the boundary between two runs of
// change. On the wire a fragment is an object:
//
//	{"pdf": {"index": 0, "file": "a.pdf"},
//	 "page": {"number": 1, "width": 612, "height": 792},
//	 "x": 72, "y": 90, "width": 40, "height": 12,
//	 "text": "Hello ", "startIndex": 0, "index": 0}
//
// and a separator is the string [Separator].
package model
