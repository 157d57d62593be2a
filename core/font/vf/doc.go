/*
Package vf resolves the characters of TeX virtual fonts.

A virtual font defines each of its characters by a small DVI program, which
typesets characters of one or more real fonts. For the purpose of generating
hint fonts we are interested in one thing only: which characters of which
real fonts end up on the page for a given virtual character. Package vf runs
the character programs of a VF file and collects, for every virtual
character, the ordered list of real (code, font) pairs it places.

	res, err := vf.Resolve(data)     // data holds the bytes of a VF file
	for _, g := range res['A'] {
	    fmt.Printf("%d from %s\n", g.Code, g.Font)
	}

Interpretation follows the font selection rules of DVI drivers: the first
font defined in a VF file is the default font, and every character program
starts with the default font selected. Positioning commands, rules and
specials do not influence font resolution and are skipped.

Every failure is fatal for the whole file. Errors are of type *dvi.Error and
may be tested with errors.Is against dvi.ErrUnknownFont, dvi.ErrNoCurrentFont,
dvi.ErrDuplicateFontDefinition and dvi.ErrMalformedStream.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package vf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}
