// Package dimen implements TeX dimensions and the fixed-point formats found
// in TeX font files.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a dimension type.
// Values are in TeX scaled points, 2^16 sp = 1pt.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = PT / 65536
	PT   Dimen = 65536   // printers point 1/72.27 inch
	BP   Dimen = 65782   // big point (PDF) = 1/72 inch
	MM   Dimen = 186467  // millimeters
	CM   Dimen = 1864679 // centimeters
	IN   Dimen = 4736286 // inch
	PC   Dimen = 786432  // pica = 12pt
)

// Infinity is the largest possible dimension
const Infinity = math.MaxInt32

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in printer's points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(PT)
}

// PtString formats a dimension the way TeX shows dimensions, e.g. "10.0pt".
func (d Dimen) PtString() string {
	return strconv.FormatFloat(d.Points(), 'f', -1, 64) + "pt"
}

// --- TFM/VF fixed-point numbers --------------------------------------------

// FixWord is a 12.20 fixed-point number, as used in TFM and VF files for
// design sizes and character widths.
type FixWord int32

// Float returns the numeric value of a fix_word.
func (fw FixWord) Float() float64 {
	return float64(fw) / (1 << 20)
}

// Dimen interprets a fix_word as a multiple of points and converts it to
// scaled points. This is how design sizes are stored.
func (fw FixWord) Dimen() Dimen {
	return Dimen(int32(fw) >> 4)
}

// Scaled interprets a fix_word relative to a font's size z (in scaled points),
// as TFM widths are, and returns the result in scaled points.
// The computation follows TeX's rounding-free product of fix_word and z.
func (fw FixWord) Scaled(z Dimen) Dimen {
	return Dimen(math.Round(fw.Float() * float64(z)))
}

func (fw FixWord) String() string {
	return strconv.FormatFloat(fw.Float(), 'f', -1, 64)
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]+(?:\.[0-9]+)?)(pt|bp|mm|cm|in|pc|sp)?$`)

// ParseDimen parses a string in TeX notation to return a dimension,
// e.g. "10pt" or "0.5in". A missing unit denotes scaled points.
func ParseDimen(s string) (Dimen, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, errors.New("format error parsing dimension")
	}
	scale := SP
	switch d[2] {
	case "pt":
		scale = PT
	case "bp":
		scale = BP
	case "mm":
		scale = MM
	case "cm":
		scale = CM
	case "in":
		scale = IN
	case "pc":
		scale = PC
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, errors.New("format error parsing dimension")
	}
	v := math.Round(n * float64(scale))
	if v > Infinity || v < -Infinity {
		return 0, errors.New("dimension too large")
	}
	return Dimen(v), nil
}
