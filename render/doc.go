// Package render draws a change list as a side-by-side PNG map.
//
// The old document's changed pages are stacked on the left and the new
// document's on the right. Pages come from a [PageImager]; [PDFToPPM]
// rasterizes PDF pages with poppler's pdftoppm. A page that cannot be
// rasterized, because the tool is missing or the input is not a PDF, is
// drawn blank with the proportions of its PageInfo.
//
// Every changed fragment is marked in red, as a box, a strike-through or an
// underline depending on the side's [Style]. Neighboring fragments on a line
// are merged first so that a changed phrase gets one mark.
//
// Pages are cut into pieces at the separators of the change list wherever
// the changes above and below a separator do not overlap vertically, and
// the shorter column is padded so that corresponding changes line up:
//
//	f, _ := os.Create("changes.png")
//	err := render.Render(ctx, f, list, render.Options{
//		Pages: &render.PDFToPPM{},
//		Crop:  true,
//	})
//
// With Crop set, blank margins are trimmed before stacking.
package render
