/*
Package dvi decodes the binary command encoding of TeX's device independent
files, as far as it is used by virtual font (VF) files.

A VF file consists of a preamble, a sequence of font definitions, a
sequence of character packets and a postamble. Each character packet
carries a short DVI program, telling a DVI driver how to typeset the virtual
character from characters of real fonts.

	pre i[1] k[1] x[k] cs[4] ds[4]
	fnt_def1…4 k[1…4] c[4] s[4] d[4] a[1] l[1] n[a+l]
	short_char0…241 cc[1] tfm[3] dvi[pl]    (pl = opcode value)
	long_char pl[4] cc[4] tfm[4] dvi[pl]
	post

Package dvi knows the byte grammar only. It produces a sequence of records
(type Op), one per VF packet, where character packets contain the records
of their DVI programs. The semantics of font selection is left to package vf.

Decoding is strict: undefined opcodes, truncated operands and character
programs not matching their declared length result in an error of kind
MalformedStream. Commands irrelevant for font resolution (rules, movements,
push/pop, specials) are decoded into records of type Ignored, carrying their
operands, so that every record can be re-encoded to its original bytes.

References:

▪︎ D. E. Knuth: DVItype (dvitype.web), sections 15–41.

▪︎ D. E. Knuth: VFtoVP (vftovp.web), sections 5–19.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package dvi

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}
