package font

import (
	"io"
	"os"
	"sort"

	"github.com/npillmayer/htfgen/core"
	"seehuhn.de/go/postscript"
	"seehuhn.de/go/postscript/type1/names"
)

// Encoding is a font encoding vector: a glyph name for each of the 256
// character codes of a TeX font.
type Encoding struct {
	Name   string
	Glyphs [256]string
}

// LoadEncoding reads an encoding file (*.enc).
func LoadEncoding(path string) (*Encoding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open encoding file %s", path)
	}
	defer file.Close()
	return ReadEncoding(file)
}

// ReadEncoding parses an encoding vector in the PostScript format used by
// dvips and pdfTeX:
//
//	% comment
//	/T1Encoding [
//	/grave /acute … % 256 glyph names
//	] def
//
// The file is run by a PostScript interpreter and has to define exactly one
// array of names. Vectors shorter than 256 entries are padded with /.notdef.
func ReadEncoding(r io.Reader) (*Encoding, error) {
	intp := postscript.NewInterpreter()
	intp.MaxOps = maxEncodingOps
	if err := intp.Execute(r); err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot interpret encoding")
	}
	var vectors []postscript.Name
	for name, val := range intp.UserDict {
		if isNameArray(val) {
			vectors = append(vectors, name)
		}
	}
	switch len(vectors) {
	case 0:
		return nil, core.Error(core.EFORMAT, "no encoding vector found")
	case 1:
	default:
		sort.Slice(vectors, func(i, j int) bool { return vectors[i] < vectors[j] })
		return nil, core.Error(core.EFORMAT, "more than one encoding vector: %v", vectors)
	}
	enc := &Encoding{Name: string(vectors[0])}
	glyphs := intp.UserDict[vectors[0]].(postscript.Array)
	if len(glyphs) > len(enc.Glyphs) {
		return nil, core.Error(core.EFORMAT, "encoding %s has %d entries", enc.Name, len(glyphs))
	}
	if len(glyphs) < len(enc.Glyphs) {
		tracer().Infof("encoding %s has %d entries, padding with %s", enc.Name, len(glyphs), NotDef)
	}
	for i := range enc.Glyphs {
		if i < len(glyphs) {
			enc.Glyphs[i] = string(glyphs[i].(postscript.Name))
		} else {
			enc.Glyphs[i] = NotDef
		}
	}
	return enc, nil
}

// maxEncodingOps bounds the work of the interpreter for a single .enc file.
const maxEncodingOps = 100_000

func isNameArray(obj postscript.Object) bool {
	arr, ok := obj.(postscript.Array)
	if !ok {
		return false
	}
	for _, o := range arr {
		if _, ok := o.(postscript.Name); !ok {
			return false
		}
	}
	return true
}

// Code returns the first character code for a glyph name.
func (enc *Encoding) Code(glyph string) (int, bool) {
	for c, g := range enc.Glyphs {
		if g == glyph {
			return c, true
		}
	}
	return -1, false
}

// Reencode presents a glyph file through an encoding vector. Positions whose
// glyph is missing from src are empty.
func Reencode(src GlyphSource, enc *Encoding) GlyphSource {
	return reencoded{src: src, enc: enc}
}

type reencoded struct {
	src GlyphSource
	enc *Encoding
}

func (re reencoded) Name() string {
	return re.src.Name()
}

func (re reencoded) GlyphName(code int) string {
	if code < 0 || code >= len(re.enc.Glyphs) {
		return ""
	}
	g := re.enc.Glyphs[code]
	if g == "" || g == NotDef || !re.src.HasGlyph(g) {
		return ""
	}
	return g
}

func (re reencoded) Codes() []int {
	return codesOf(re, len(re.enc.Glyphs))
}

func (re reencoded) HasGlyph(name string) bool {
	return re.src.HasGlyph(name)
}

// UnicodeFor returns the Unicode text for a glyph name, following the
// Adobe Glyph List and the uniXXXX/uXXXXX naming conventions. Names without
// a Unicode meaning result in nil.
func UnicodeFor(glyph string) []rune {
	if glyph == "" || glyph == NotDef {
		return nil
	}
	rr := names.ToUnicode(glyph, false)
	for _, r := range rr {
		if r == 0xFFFD || (r >= 0xE000 && r <= 0xF8FF) { // replacement or private use
			return nil
		}
	}
	return rr
}
