// Package flatten serializes a document's extracted text into one string.
//
// Every text item of every page is normalized (trimmed, internal whitespace
// collapsed, one trailing space appended) and appended to the document text.
// Each retained item becomes a [model.Fragment] that remembers where its text
// starts in the flattened string, so that offsets reported by a text diff can
// be mapped back to boxes on the page:
//
//	doc := flatten.Build(model.Source{Index: 0, File: "a.pdf"}, pages, flatten.Options{})
//	fmt.Println(doc.Text)                   // "Hello World "
//	fmt.Println(doc.Fragments[1].StartIndex) // 6
//
// Items that normalize to nothing are dropped; they carry no text and would
// only produce zero-length fragments.
package flatten
