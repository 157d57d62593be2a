/*
Package psmap reads font map files of dvips and pdfTeX.

A map file connects TeX font names to PostScript fonts. Lines have the form

	texname PSName "special instructions" <encoding.enc <fontfile.pfb

where everything but the TeX font name is optional. Lines starting with one of
'%', '#', '*' or ';' are comments.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package psmap

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}

// Entry is a single font mapping.
type Entry struct {
	TeXName  string // name of the TFM file
	PSName   string // PostScript name of the font
	Encoding string // encoding file, if any
	FontFile string // glyph file to embed or download, if any
	Special  string // PostScript instructions like "SlantFont"
}

// Load reads a map file.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open map file %s", path)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads map entries from r. Entries are returned in input order.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	lines := bufio.NewScanner(r)
	n := 0
	for lines.Scan() {
		n++
		line := strings.TrimSpace(lines.Text())
		if len(line) == 0 || strings.ContainsRune("%#*;", rune(line[0])) {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return entries, core.WrapError(err, core.EFORMAT, "map file line %d", n)
		}
		entries = append(entries, e)
	}
	if err := lines.Err(); err != nil {
		return entries, core.WrapError(err, core.EINTERNAL, "cannot read map file")
	}
	tracer().Debugf("map file has %d entries", len(entries))
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	var e Entry
	for len(line) > 0 {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			break
		}
		switch line[0] {
		case '"':
			end := strings.IndexByte(line[1:], '"')
			if end < 0 {
				return e, core.Error(core.EFORMAT, "unterminated special in map line")
			}
			e.Special = strings.TrimSpace(line[1 : end+1])
			line = line[end+2:]
			continue
		case '<':
			line = strings.TrimLeft(line, "<[")
			line = strings.TrimLeft(line, " \t")
			var fname string
			fname, line = nextField(line)
			if strings.HasSuffix(strings.ToLower(fname), ".enc") {
				e.Encoding = fname
			} else {
				e.FontFile = fname
			}
			continue
		}
		var tok string
		tok, line = nextField(line)
		switch {
		case e.TeXName == "":
			e.TeXName = tok
		case e.PSName == "":
			e.PSName = tok
		default:
			tracer().Debugf("map entry %s: ignoring field %q", e.TeXName, tok)
		}
	}
	if e.TeXName == "" {
		return e, core.Error(core.EFORMAT, "map line without font name")
	}
	return e, nil
}

func nextField(line string) (string, string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], line[i:]
	}
	return line, ""
}

// GroupByEncoding collects the TeX font names of all entries sharing an
// encoding file. Entries without an encoding are left out. Font names keep
// the order of the input.
func GroupByEncoding(entries []Entry) map[string][]string {
	groups := make(map[string][]string)
	for _, e := range entries {
		if e.Encoding == "" {
			continue
		}
		groups[e.Encoding] = append(groups[e.Encoding], e.TeXName)
	}
	return groups
}

// Encodings returns the sorted encoding files of a grouping.
func Encodings(groups map[string][]string) []string {
	encs := make([]string, 0, len(groups))
	for enc := range groups {
		encs = append(encs, enc)
	}
	sort.Strings(encs)
	return encs
}
