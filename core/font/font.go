/*
Package font gives access to the glyphs of real fonts.

There is a certain confusion in the nomenclature of TeX fonts. We will
stick to the following definitions:

* A "glyph file" is a font program, i.e. a Type 1 font (*.pfb, *.pfa) or
an OpenType/TrueType font (*.otf, *.ttf). Glyphs in a glyph file are
identified by name.

* An "encoding" is a vector of 256 glyph names, assigning glyphs to the
character codes TeX uses. Encodings are kept in PostScript files (*.enc).

* A "TeX font" is a glyph file seen through an encoding. This is what
a font map file declares for every font TeX knows.

Package font models a TeX font as a GlyphSource, which reports the name of
the glyph at every character code. Glyph names may be translated to Unicode
with UnicodeFor.

Type 1 fonts are read with seehuhn.de/go/postscript, OpenType fonts with
golang.org/x/image/font/sfnt.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
	"seehuhn.de/go/postscript/type1"
)

// tracer traces with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}

// GlyphSource reports the glyphs of a TeX font by character code.
type GlyphSource interface {
	Name() string              // name of the font
	GlyphName(code int) string // glyph name at code, or "" for an empty position
	Codes() []int              // non-empty positions, ascending
	HasGlyph(name string) bool // does the glyph file contain a glyph?
}

// NotDef is the name of the glyph PostScript uses for empty positions.
const NotDef = ".notdef"

// --- Type 1 ----------------------------------------------------------------

// Type1Font is a Type 1 glyph file, seen through its built-in encoding.
type Type1Font struct {
	Fontname string
	Filepath string
	PS       *type1.Font
}

// LoadType1 reads a Type 1 font from a PFB or PFA file.
func LoadType1(fontfile string) (*Type1Font, error) {
	file, err := os.Open(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open Type 1 font %s", fontfile)
	}
	defer file.Close()
	f, err := ParseType1(file)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseType1 reads a Type 1 font program.
func ParseType1(r io.Reader) (*Type1Font, error) {
	ps, err := type1.Read(r)
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot decode Type 1 font")
	}
	return NewType1Font(ps), nil
}

// NewType1Font wraps a decoded Type 1 font program.
func NewType1Font(ps *type1.Font) *Type1Font {
	f := &Type1Font{PS: ps}
	if ps.FontInfo != nil {
		f.Fontname = ps.FontInfo.FontName
	}
	tracer().Debugf("Type 1 font %s has %d glyphs", f.Fontname, len(ps.Glyphs))
	return f
}

// Name is part of interface GlyphSource.
func (f *Type1Font) Name() string {
	return f.Fontname
}

// GlyphName is part of interface GlyphSource.
func (f *Type1Font) GlyphName(code int) string {
	if code < 0 || code >= len(f.PS.Encoding) {
		return ""
	}
	name := f.PS.Encoding[code]
	if name == "" || name == NotDef || !f.HasGlyph(name) {
		return ""
	}
	return name
}

// Codes is part of interface GlyphSource.
func (f *Type1Font) Codes() []int {
	return codesOf(f, len(f.PS.Encoding))
}

// HasGlyph is part of interface GlyphSource.
func (f *Type1Font) HasGlyph(name string) bool {
	_, ok := f.PS.Glyphs[name]
	return ok
}

// --- OpenType --------------------------------------------------------------

// OpenTypeFont is an OpenType or TrueType glyph file. Without an encoding,
// code positions 0…255 are looked up in the font's Unicode cmap, i.e. the
// font is seen through Latin-1.
type OpenTypeFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
	names    map[string]sfnt.GlyphIndex
	once     sync.Once
}

// LoadOpenTypeFont reads an OpenType or TrueType font file.
func LoadOpenTypeFont(fontfile string) (*OpenTypeFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont decodes the binary data of an OpenType or TrueType font.
func ParseOpenTypeFont(fbytes []byte) (f *OpenTypeFont, err error) {
	f = &OpenTypeFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot decode OpenType font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDPostScript)
	if f.Fontname == "" {
		f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	}
	return
}

// Name is part of interface GlyphSource.
func (f *OpenTypeFont) Name() string {
	return f.Fontname
}

// GlyphName is part of interface GlyphSource.
func (f *OpenTypeFont) GlyphName(code int) string {
	if code < 0 || code > 255 {
		return ""
	}
	var buf sfnt.Buffer
	gid, err := f.SFNT.GlyphIndex(&buf, rune(code))
	if err != nil || gid == 0 {
		return ""
	}
	name, err := f.SFNT.GlyphName(&buf, gid)
	if err != nil || name == "" {
		// fonts without a post table have no glyph names
		return fmt.Sprintf("uni%04X", code)
	}
	return name
}

// Codes is part of interface GlyphSource.
func (f *OpenTypeFont) Codes() []int {
	return codesOf(f, 256)
}

// HasGlyph is part of interface GlyphSource.
func (f *OpenTypeFont) HasGlyph(name string) bool {
	f.once.Do(f.collectGlyphNames)
	if _, ok := f.names[name]; ok {
		return true
	}
	// fonts without glyph names: accept names which map to a character in the cmap
	rr := UnicodeFor(name)
	if len(rr) != 1 {
		return false
	}
	var buf sfnt.Buffer
	gid, err := f.SFNT.GlyphIndex(&buf, rr[0])
	return err == nil && gid != 0
}

func (f *OpenTypeFont) collectGlyphNames() {
	f.names = make(map[string]sfnt.GlyphIndex, f.SFNT.NumGlyphs())
	var buf sfnt.Buffer
	for i := 0; i < f.SFNT.NumGlyphs(); i++ {
		if name, err := f.SFNT.GlyphName(&buf, sfnt.GlyphIndex(i)); err == nil && name != "" {
			f.names[name] = sfnt.GlyphIndex(i)
		}
	}
	tracer().Debugf("OpenType font %s has %d named glyphs", f.Fontname, len(f.names))
}

// --- Loading ---------------------------------------------------------------

// LoadGlyphFile loads a Type 1 or OpenType font, depending on the file
// extension.
func LoadGlyphFile(fontfile string) (GlyphSource, error) {
	switch strings.ToLower(filepath.Ext(fontfile)) {
	case ".pfb", ".pfa", ".t1":
		return LoadType1(fontfile)
	case ".otf", ".ttf":
		return LoadOpenTypeFont(fontfile)
	}
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font %s", fontfile)
	}
	if f, err := ParseOpenTypeFont(bytez); err == nil {
		f.Filepath = fontfile
		return f, nil
	}
	f, err := ParseType1(bytes.NewReader(bytez))
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

func codesOf(src GlyphSource, n int) []int {
	var codes []int
	for c := 0; c < n; c++ {
		if src.GlyphName(c) != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// NormalizeFontname strips directory and extension from a font file name
// and lower-cases it. The result is used as a key for font lookup.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(filepath.Base(fname))
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	return strings.ToLower(fname)
}
