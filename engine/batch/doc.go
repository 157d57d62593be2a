/*
Package batch generates the hint fonts of a font family in one go.

A batch run is described by a Recipe, usually read from a TOML file:

	family = "droid"
	map = "droid.map"
	glyphs = "DroidSerif-Regular.pfb"
	css = "droid"
	vf = ["DroidSerif-Regular-ot1"]
	output = "htf"

	[prototypes]
	"droid-04.enc" = "DroidSans-Regular.pfb"

Run reads the map file and groups the TeX fonts of the family by encoding.
For each non-standard encoding a table is generated from a prototype glyph
file, and every font of the group gets an alias to that table. Fonts in one
of the standard TeX encodings get an alias to the corresponding table of
TeX4ht. Virtual fonts are resolved to their real fonts and get a composed
table. Finally a LaTeX test document and an HTML preview are written.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package batch

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'htfgen.batch'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.batch")
}
