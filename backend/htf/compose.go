package htf

import (
	"strings"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font/vf"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// TableLookup returns the hint table for a real font.
type TableLookup func(fontname string) (*Table, error)

// combining maps spacing accents, as found in text fonts, to combining marks.
var combining = map[rune]rune{
	'`':      '\u0300', // grave
	'\u00b4': '\u0301', // acute
	'^':      '\u0302',
	'\u02c6': '\u0302', // circumflex
	'~':      '\u0303',
	'\u02dc': '\u0303', // tilde
	'\u00af': '\u0304',
	'\u02c9': '\u0304', // macron
	'\u02d8': '\u0306', // breve
	'\u02d9': '\u0307', // dot above
	'\u00a8': '\u0308', // dieresis
	'\u02da': '\u030a', // ring
	'\u02dd': '\u030b', // hungarumlaut
	'\u02c7': '\u030c', // caron
	'\u00b8': '\u0327', // cedilla
	'\u02db': '\u0328', // ogonek
}

// FromVirtualFont composes the table of a virtual font from the tables of its
// real fonts. A virtual character which places several glyphs gets the
// concatenated text of these glyphs. Spacing accents are moved behind the
// base text as combining marks, and the result is normalized to NFC, i.e.
// 'A' plus '¨' results in 'Ä'.
//
// A character without any text, but with a pictorial glyph, is pictorial.
// Characters without glyphs and codes above 255 are left out.
func FromVirtualFont(name string, res vf.Resolution, lookup TableLookup) (*Table, error) {
	t := NewTable(name)
	tables := make(map[string]*Table)
	for _, code := range res.Codes() {
		glyphs := res[code]
		if code > MaxCode || len(glyphs) == 0 {
			continue
		}
		parts := make([]Entry, 0, len(glyphs))
		for _, g := range glyphs {
			rt, ok := tables[g.Font]
			if !ok {
				var err error
				if rt, err = lookup(g.Font); err != nil {
					return nil, core.WrapError(err, core.Code(err),
						"virtual font %s: no table for real font %s", name, g.Font)
				}
				tables[g.Font] = rt
			}
			parts = append(parts, rt.Entry(g.Code))
		}
		if e := compose(parts); !e.IsEmpty() {
			t.Set(code, e)
		}
	}
	if t.IsEmpty() {
		return nil, core.Error(core.EINVALID, "virtual font %s has no printable characters", name)
	}
	tracer().Infof("table %s composed from %d real fonts", name, len(tables))
	return t, nil
}

func compose(parts []Entry) Entry {
	if len(parts) == 1 {
		return parts[0]
	}
	var base, marks []rune
	var comments []string
	pictorial := false
	for _, p := range parts {
		if p.Comment != "" {
			comments = append(comments, p.Comment)
		}
		if p.Text == "" {
			pictorial = pictorial || p.Class != ""
			continue
		}
		rr := []rune(html.UnescapeString(p.Text))
		if len(rr) == 1 {
			if mark, ok := combining[rr[0]]; ok {
				marks = append(marks, mark)
				continue
			}
		}
		base = append(base, rr...)
	}
	e := Entry{Comment: strings.Join(comments, "+")}
	if len(base) == 0 && len(marks) > 0 { // accents only
		for _, m := range marks {
			base = append(base, spacing(m))
		}
		marks = nil
	}
	if len(base) == 0 {
		if pictorial {
			e.Class = PictorialClass
		}
		return e
	}
	text := norm.NFC.String(string(append(base, marks...)))
	e.Text = CharRefs([]rune(text))
	return e
}

// spacing reverts a combining mark to its first spacing form.
func spacing(mark rune) rune {
	best := rune(-1)
	for acc, m := range combining {
		if m == mark && (best < 0 || acc < best) {
			best = acc
		}
	}
	return best
}
