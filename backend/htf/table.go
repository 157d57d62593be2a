package htf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font"
)

// MaxCode is the highest character code of a TeX font.
const MaxCode = 255

// PictorialClass requests a picture for a glyph without a Unicode meaning.
const PictorialClass = "1"

// Entry is the hint for a single character position.
type Entry struct {
	Text    string // HTML text, usually a character reference like '&#x41;'
	Class   string // empty or PictorialClass
	Comment string // glyph name(s)
}

// IsEmpty is true for positions without a glyph.
func (e Entry) IsEmpty() bool {
	return e.Text == "" && e.Class == "" && e.Comment == ""
}

// Table is the hint table of a font.
type Table struct {
	Name    string
	First   int
	Last    int
	Entries map[int]Entry
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		First:   -1,
		Last:    -1,
		Entries: make(map[int]Entry),
	}
}

// Set stores an entry for a code position and widens the range of the table
// if necessary. Codes outside of 0…255 cannot be addressed by TeX and are
// dropped.
func (t *Table) Set(code int, e Entry) {
	if code < 0 || code > MaxCode {
		tracer().Debugf("%s: dropping code %d", t.Name, code)
		return
	}
	t.Entries[code] = e
	if t.First < 0 || code < t.First {
		t.First = code
	}
	if code > t.Last {
		t.Last = code
	}
}

// Entry returns the entry for a code. Positions without an entry are empty.
func (t *Table) Entry(code int) Entry {
	return t.Entries[code]
}

// IsEmpty is true if t contains no entries.
func (t *Table) IsEmpty() bool {
	return t.First < 0
}

// Len returns the number of lines of the table body.
func (t *Table) Len() int {
	if t.IsEmpty() {
		return 0
	}
	return t.Last - t.First + 1
}

// FromGlyphSource creates a table for the glyphs of src. Glyphs with a Unicode
// meaning are written as character references, others are requested as
// pictures.
func FromGlyphSource(name string, src font.GlyphSource) *Table {
	t := NewTable(name)
	for _, code := range src.Codes() {
		glyph := src.GlyphName(code)
		if glyph == "" {
			continue
		}
		if rr := font.UnicodeFor(glyph); len(rr) > 0 {
			t.Set(code, Entry{Text: CharRefs(rr), Comment: glyph})
		} else {
			t.Set(code, Entry{Class: PictorialClass, Comment: glyph})
		}
	}
	tracer().Infof("table %s from %s: codes %d…%d", name, src.Name(), t.First, t.Last)
	return t
}

// CharRefs formats runes as HTML character references.
func CharRefs(rr []rune) string {
	var sb strings.Builder
	for _, r := range rr {
		fmt.Fprintf(&sb, "&#x%x;", r)
	}
	return sb.String()
}

// Header returns the first and last line of the table's file format.
func (t *Table) Header() string {
	return fmt.Sprintf("%s %d %d", t.Name, t.First, t.Last)
}

// WriteTo writes t in TeX4ht format. Gaps between first and last code are
// written as empty positions.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	if t.IsEmpty() {
		return 0, core.Error(core.EINVALID, "table %s has no entries", t.Name)
	}
	bw := bufio.NewWriter(w)
	var n int64
	write := func(format string, args ...interface{}) {
		k, _ := fmt.Fprintf(bw, format, args...)
		n += int64(k)
	}
	write("%s\n", t.Header())
	for code := t.First; code <= t.Last; code++ {
		e := t.Entries[code]
		if e.Comment == "" {
			write("'%s' '%s' %d\n", e.Text, e.Class, code)
		} else {
			write("'%s' '%s' %d %s\n", e.Text, e.Class, code, e.Comment)
		}
	}
	write("%s\n", t.Header())
	if err := bw.Flush(); err != nil {
		return n, core.WrapError(err, core.EINTERNAL, "cannot write table %s", t.Name)
	}
	return n, nil
}

// HintFile is the content of an htf file: a table, an alias to the table of
// another font, or both. CSS maps font variants to htfcss declarations.
type HintFile struct {
	Target string
	CSS    map[string]string
	Table  *Table
}

// ReadHintFile reads an htf file. Alias and CSS lines are accepted in front of
// the table header and after its trailer. A file may consist of alias lines
// only.
func ReadHintFile(r io.Reader) (*HintFile, error) {
	hf := &HintFile{CSS: make(map[string]string)}
	var t *Table
	lines := bufio.NewScanner(r)
	code, n := 0, 0
	done := false
	for lines.Scan() {
		n++
		line := strings.TrimRight(lines.Text(), " \t\r")
		if t == nil || done {
			switch {
			case line == "":
			case strings.HasPrefix(line, "."):
				if hf.Target == "" {
					hf.Target = strings.TrimSpace(line[1:])
				}
			case strings.HasPrefix(line, "htfcss:"):
				variant, css, _ := strings.Cut(strings.TrimSpace(line[len("htfcss:"):]), " ")
				hf.CSS[variant] = strings.TrimSpace(css)
			case done:
				tracer().Debugf("htf line %d ignored", n)
			default:
				hdr, err := parseHeader(line)
				if err != nil {
					return nil, core.WrapError(err, core.EFORMAT, "htf line %d", n)
				}
				t, code = hdr, hdr.First
			}
			continue
		}
		if code > t.Last {
			if hdr, err := parseHeader(line); err != nil || hdr.Header() != t.Header() {
				return nil, core.Error(core.EFORMAT, "htf line %d: trailer does not match header %q", n, t.Header())
			}
			done = true
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, core.WrapError(err, core.EFORMAT, "htf line %d", n)
		}
		if !e.IsEmpty() {
			t.Entries[code] = e
		}
		code++
	}
	if err := lines.Err(); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot read htf file")
	}
	if t != nil && !done {
		return nil, core.Error(core.EFORMAT, "htf table %s is truncated", t.Name)
	}
	if t == nil && hf.Target == "" && len(hf.CSS) == 0 {
		return nil, core.Error(core.EFORMAT, "htf file is empty")
	}
	hf.Table = t
	return hf, nil
}

// ReadTable reads a table in TeX4ht format. Alias and CSS lines are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	hf, err := ReadHintFile(r)
	if err != nil {
		return nil, err
	}
	if hf.Table == nil {
		return nil, core.Error(core.EFORMAT, "no htf table found")
	}
	return hf.Table, nil
}

func parseHeader(line string) (*Table, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, fmt.Errorf("malformed header %q", line)
	}
	first, err1 := strconv.Atoi(fields[1])
	last, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || first < 0 || last < first || last > MaxCode {
		return nil, fmt.Errorf("malformed code range in header %q", line)
	}
	t := NewTable(fields[0])
	t.First, t.Last = first, last
	return t, nil
}

// parseEntry splits a line into two delimited fields and a comment. The
// delimiter is the first character of the line.
func parseEntry(line string) (Entry, error) {
	var e Entry
	if line == "" {
		return e, fmt.Errorf("empty line")
	}
	delim := line[:1]
	text, rest, ok := strings.Cut(line[1:], delim)
	if !ok {
		return e, fmt.Errorf("unterminated text field")
	}
	rest = strings.TrimLeft(rest, " ")
	if !strings.HasPrefix(rest, delim) {
		return e, fmt.Errorf("missing class field")
	}
	class, rest, ok := strings.Cut(rest[1:], delim)
	if !ok {
		return e, fmt.Errorf("unterminated class field")
	}
	e.Text, e.Class = text, class
	// the comment starts with the code position, which is redundant
	rest = strings.TrimSpace(rest)
	if num, comment, _ := strings.Cut(rest, " "); isNumber(num) {
		rest = strings.TrimSpace(comment)
	}
	e.Comment = rest
	return e, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
