package vf

import (
	"io"

	"github.com/npillmayer/htfgen/core/dimen"
	"github.com/npillmayer/htfgen/core/font/dvi"
)

// OpSource is a forward-only sequence of opcode records. Next returns io.EOF
// at the end of the sequence. *dvi.Decoder is an OpSource.
type OpSource interface {
	Next() (dvi.Op, error)
}

// SliceSource is an OpSource over records already in memory.
type SliceSource struct {
	ops []dvi.Op
	pos int
}

// NewSliceSource creates an OpSource reading ops in order.
func NewSliceSource(ops []dvi.Op) *SliceSource {
	return &SliceSource{ops: ops}
}

// Next is part of interface OpSource.
func (s *SliceSource) Next() (dvi.Op, error) {
	if s.pos >= len(s.ops) {
		return nil, io.EOF
	}
	op := s.ops[s.pos]
	s.pos++
	return op, nil
}

var _ OpSource = &dvi.Decoder{}

// state is the context a character program runs in. It is passed by value;
// a nested program gets a copy and cannot alter its caller's context.
type state struct {
	currentFont string
	hasFont     bool
	currentChar int // -1 outside of character programs
	depth       int
}

// interpreter holds what is shared by all character programs of a file: the
// font table and the resolution being built.
type interpreter struct {
	font *Font
}

// Interpret runs the character programs of a VF file, given as a sequence of
// opcode records, and returns the interpreted font. Any error aborts
// interpretation; no partial results are returned.
func Interpret(src OpSource) (*Font, error) {
	ip := &interpreter{font: &Font{
		Fonts:   make(map[int]FontRef),
		Chars:   make(Resolution),
		Packets: make(map[int]dvi.CharacterDefinition),
	}}
	st := state{currentChar: -1}
	for {
		op, err := src.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if st, err = ip.step(op, st); err != nil {
			return nil, err
		}
	}
	return ip.font, nil
}

// step applies a single record to st and returns the resulting state.
func (ip *interpreter) step(op dvi.Op, st state) (state, error) {
	switch op := op.(type) {
	case dvi.FontDefinition:
		return st, ip.defineFont(op, st)
	case dvi.CharacterDefinition:
		return st, ip.character(op, st)
	case dvi.SelectFont:
		ref, ok := ip.font.Fonts[op.FontNum]
		if !ok {
			return st, dvi.NewError(dvi.UnknownFont, op, st.currentChar,
				"font %d selected but not defined", op.FontNum)
		}
		st.currentFont, st.hasFont = ref.Name, true
		return st, nil
	case dvi.Place:
		return st, ip.place(op, op.Char, st)
	case dvi.PlaceRaw:
		return st, ip.place(op, op.Char(), st)
	case dvi.Ignored:
		if op.Kind == dvi.Preamble {
			ip.preamble(op)
		}
		return st, nil
	}
	return st, dvi.NewError(dvi.MalformedStream, op, st.currentChar, "unexpected record %T", op)
}

func (ip *interpreter) defineFont(fd dvi.FontDefinition, st state) error {
	if prev, ok := ip.font.Fonts[fd.FontNum]; ok {
		return dvi.NewError(dvi.DuplicateFontDefinition, fd, st.currentChar,
			"font %d defined as %q and %q", fd.FontNum, prev.Name, fd.TeXName())
	}
	ip.font.Fonts[fd.FontNum] = FontRef{
		Num:        fd.FontNum,
		Name:       fd.TeXName(),
		Area:       fd.Area,
		Checksum:   fd.Checksum,
		Scale:      fd.Scale,
		DesignSize: fd.DesignSize,
	}
	if !ip.font.hasDefault {
		ip.font.DefaultFont, ip.font.hasDefault = fd.FontNum, true
	}
	tracer().Debugf("VF font %d = %s", fd.FontNum, fd.TeXName())
	return nil
}

// character runs the program of a character packet. The program starts with
// the default font selected, in a copy of the caller's state.
func (ip *interpreter) character(cd dvi.CharacterDefinition, st state) error {
	inner := state{currentChar: cd.Char, depth: st.depth + 1}
	if inner.depth > dvi.MaxNestingDepth {
		return dvi.NewError(dvi.MalformedStream, cd, st.currentChar,
			"character programs nested deeper than %d", dvi.MaxNestingDepth)
	}
	if ip.font.hasDefault {
		inner.currentFont, inner.hasFont = ip.font.Fonts[ip.font.DefaultFont].Name, true
	}
	if _, dup := ip.font.Chars[cd.Char]; dup {
		tracer().Infof("VF character %d defined more than once, using last definition", cd.Char)
	}
	ip.font.Chars[cd.Char] = []Glyph{}
	ip.font.Packets[cd.Char] = cd
	var err error
	for _, op := range cd.Body {
		if inner, err = ip.step(op, inner); err != nil {
			return err
		}
	}
	return nil
}

func (ip *interpreter) place(op dvi.Op, code int, st state) error {
	if st.currentChar < 0 {
		return dvi.NewError(dvi.MalformedStream, op, -1,
			"character %d placed outside of a character program", code)
	}
	if !st.hasFont {
		return dvi.NewError(dvi.NoCurrentFont, op, st.currentChar,
			"character %d placed without a font", code)
	}
	c := st.currentChar
	ip.font.Chars[c] = append(ip.font.Chars[c], Glyph{Code: code, Font: st.currentFont})
	return nil
}

func (ip *interpreter) preamble(pre dvi.Ignored) {
	ip.font.Comment = string(pre.Payload)
	if len(pre.Args) == 3 {
		ip.font.Checksum = uint32(pre.Args[1])
		ip.font.DesignSize = dimen.FixWord(pre.Args[2])
	}
}
