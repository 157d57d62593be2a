/*
Package htf creates hint font files for TeX4ht.

TeX4ht translates the characters of a DVI file to HTML by looking up each
character code of each font in a hint font file (.htf). An htf file is a
table with one line per character position:

	name first last
	'&#x41;' '' 65 A
	'' '1' 66 ornament
	'' '' 67
	…
	name first last

The first field is the text written for the character, the second field is a
class (a non-empty class requests a pictorial rendering of the glyph), the
rest of a line is a comment. Header and trailer name the font and the range
of character codes covered.

Besides tables, htf files may carry aliases: a line '.target' makes TeX4ht use
the table of another font, and lines starting with 'htfcss:' attach CSS
declarations to font variants.

Package htf builds tables from glyph files (see package font), composes
tables for virtual fonts from the tables of their real fonts, and classifies
font variants into CSS declarations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package htf

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'htfgen.htf'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.htf")
}
