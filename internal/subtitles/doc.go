// Package subtitles prepares ASS subtitle tracks for muxing.
//
// Preparation is a fixed sequence: existence check, load, merge of the shared
// warning fragment, style normalization, and garbage removal. Rendering and
// timing semantics stay inside the scripts; this package only rewrites the
// document structure.
package subtitles
