// Package server exposes document comparison over HTTP.
//
// Routes:
//
//	GET  /healthz   liveness check
//	POST /compare   compare two extracted documents
//
// A compare request carries both documents in the extract.Document JSON
// form plus optional diff settings:
//
//	{
//	    "left":  {"pdf": {"index": 0, "file": "v1.pdf"}, "pages": [...]},
//	    "right": {"pdf": {"index": 1, "file": "v2.pdf"}, "pages": [...]},
//	    "granularity": "word",
//	    "timeout": "2s",
//	    "simplify": true
//	}
//
// The timeout must be positive and is capped at the configured diff
// timeout. "simplify" overrides output.simplify in either direction.
//
// The response holds the change list and its summary. With ?format=png the
// change map is returned as a PNG image instead. The server never
// rasterizes the files named in a request, so pages are drawn blank.
package server
