package dvi

import (
	"io"

	"github.com/npillmayer/htfgen/core/dimen"
)

// MaxNestingDepth is the maximum nesting depth of character programs.
// The byte grammar cannot nest character packets, so the decoder never
// produces nested programs; the limit is enforced by interpreters of record
// sequences built elsewhere (see package vf).
const MaxNestingDepth = 64

// Decoder reads the packets of a VF file one at a time. It is a forward-only
// scanner; to restart, create a new decoder on the same data.
//
// Character packets are decoded completely, including their DVI programs,
// before they are returned.
type Decoder struct {
	data binarySegm
	pos  int
	done bool
	err  error
}

// NewDecoder creates a decoder for the contents of a VF file. The decoder
// does not copy data; records returned reference sub-slices of it.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: binarySegm(data)}
}

// Next returns the next record of the VF file. At the end of input or after
// the postamble, Next returns io.EOF. Bytes following the postamble are not
// examined. After an error, Next will keep returning that error.
func (d *Decoder) Next() (Op, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done || d.pos >= len(d.data) {
		d.done = true
		return nil, io.EOF
	}
	op, err := d.packet(d.pos)
	if err != nil {
		d.err = err
		return nil, err
	}
	tracer().Debugf("VF @%d: %v", d.pos, op)
	d.pos += op.Len()
	if op.Opcode() == Post {
		if d.pos < len(d.data) {
			tracer().Debugf("VF: ignoring %d bytes after postamble", len(d.data)-d.pos)
		}
		d.done = true
	}
	return op, nil
}

// Offset returns the position of the next record to be decoded.
func (d *Decoder) Offset() int {
	return d.pos
}

// Decode decodes all records of a VF file.
func Decode(data []byte) ([]Op, error) {
	d := NewDecoder(data)
	var ops []Op
	for {
		op, err := d.Next()
		if err == io.EOF {
			return ops, nil
		} else if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}

// DecodeProgram decodes a bare DVI program, as found in the body of a
// character packet. Offsets of the records are relative to data.
func DecodeProgram(data []byte) ([]Op, error) {
	d := NewDecoder(data)
	return d.program(0, len(data), -1)
}

// --- VF file level ---------------------------------------------------------

// packet decodes the VF packet starting at pos.
func (d *Decoder) packet(pos int) (Op, error) {
	code := Opcode(d.data[pos])
	switch {
	case shortCharRange.contains(code):
		return d.characterDefinition(pos, code)
	case code == LongChar:
		return d.characterDefinition(pos, code)
	case fntDefRange.contains(code):
		return d.fontDefinition(pos, code, -1)
	case code == Pre:
		return d.preamble(pos)
	case code == Post:
		return Ignored{Header: Header{Pos: pos, Code: code, Size: 1}, Kind: Postamble}, nil
	}
	return nil, malformed(pos, code, -1, "undefined VF opcode %d", code)
}

// characterDefinition decodes a short_char or long_char packet, including its
// DVI program.
func (d *Decoder) characterDefinition(pos int, code Opcode) (Op, error) {
	cd := CharacterDefinition{Header: Header{Pos: pos, Code: code}}
	var pl int
	if code == LongChar {
		cd.Long = true
		n, err := d.data.signed(pos+1, 4)
		if err != nil {
			return nil, malformed(pos, code, -1, "truncated packet length")
		}
		if n < 0 {
			return nil, malformed(pos, code, -1, "negative packet length %d", n)
		}
		pl = int(n)
		c, err := d.data.unsigned(pos+5, 4)
		if err != nil {
			return nil, malformed(pos, code, -1, "truncated character code")
		}
		cd.Char = int(c)
		w, err := d.data.signed(pos+9, 4)
		if err != nil {
			return nil, malformed(pos, code, cd.Char, "truncated TFM width")
		}
		cd.TFMWidth = dimen.FixWord(w)
		cd.BodyOffset = pos + 13
	} else {
		pl = shortCharRange.index(code)
		c, err := d.data.unsigned(pos+1, 1)
		if err != nil {
			return nil, malformed(pos, code, -1, "truncated character code")
		}
		cd.Char = int(c)
		w, err := d.data.unsigned(pos+2, 3)
		if err != nil {
			return nil, malformed(pos, code, cd.Char, "truncated TFM width")
		}
		cd.TFMWidth = dimen.FixWord(w)
		cd.BodyOffset = pos + 5
	}
	end := cd.BodyOffset + pl
	if end > len(d.data) || end < cd.BodyOffset {
		return nil, malformed(cd.BodyOffset, code, cd.Char,
			"packet length %d exceeds remaining input of %d bytes", pl, len(d.data)-cd.BodyOffset)
	}
	body, err := d.program(cd.BodyOffset, end, cd.Char)
	if err != nil {
		return nil, err
	}
	cd.Body = body
	cd.Size = end - pos
	return cd, nil
}

// fontDefinition decodes fnt_def1…4. It is legal both at file level and
// inside DVI programs.
func (d *Decoder) fontDefinition(pos int, code Opcode, char int) (Op, error) {
	w := fntDefRange.index(code) + 1
	fd := FontDefinition{Header: Header{Pos: pos, Code: code}}
	k, err := d.operand(pos+1, w, w == 4)
	if err != nil {
		return nil, malformed(pos, code, char, "truncated font number")
	}
	fd.FontNum = k
	p := pos + 1 + w
	c, err1 := d.data.unsigned(p, 4)
	s, err2 := d.data.signed(p+4, 4)
	ds, err3 := d.data.signed(p+8, 4)
	a, err4 := d.data.unsigned(p+12, 1)
	l, err5 := d.data.unsigned(p+13, 1)
	if err := firstError(err1, err2, err3, err4, err5); err != nil {
		return nil, malformed(pos, code, char, "truncated definition of font %d", k)
	}
	fd.Checksum, fd.Scale, fd.DesignSize = c, dimen.FixWord(s), dimen.FixWord(ds)
	n, err := d.data.view(p+14, int(a)+int(l))
	if err != nil {
		return nil, malformed(pos, code, char, "truncated name of font %d", k)
	}
	fd.Area, fd.Name = string(n[:a]), string(n[a:])
	fd.Size = 1 + w + 14 + int(a) + int(l)
	return fd, nil
}

// preamble decodes pre: i[1] k[1] x[k] cs[4] ds[4].
func (d *Decoder) preamble(pos int) (Op, error) {
	id, err := d.data.unsigned(pos+1, 1)
	if err != nil {
		return nil, malformed(pos, Pre, -1, "truncated preamble")
	}
	k, err := d.data.unsigned(pos+2, 1)
	if err != nil {
		return nil, malformed(pos, Pre, -1, "truncated preamble")
	}
	comment, err := d.data.view(pos+3, int(k))
	if err != nil {
		return nil, malformed(pos, Pre, -1, "truncated preamble comment")
	}
	cs, err1 := d.data.signed(pos+3+int(k), 4)
	ds, err2 := d.data.signed(pos+7+int(k), 4)
	if err := firstError(err1, err2); err != nil {
		return nil, malformed(pos, Pre, -1, "truncated preamble")
	}
	if id != VFId {
		tracer().Infof("VF preamble has id %d, expected %d", id, VFId)
	}
	return Ignored{
		Header:  Header{Pos: pos, Code: Pre, Size: 3 + int(k) + 8},
		Kind:    Preamble,
		Args:    []int32{int32(id), cs, ds},
		Payload: comment,
	}, nil
}

// --- DVI programs ----------------------------------------------------------

// program decodes the DVI commands in [start, end). Commands may not overrun
// end; if the last command does, the declared length does not match and the
// error points to start.
func (d *Decoder) program(start, end, char int) ([]Op, error) {
	var ops []Op
	pos := start
	for pos < end {
		op, err := d.command(pos, char)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		pos += op.Len()
	}
	if pos != end {
		return nil, malformed(start, ops[len(ops)-1].Opcode(), char,
			"character program length mismatch: declared %d, decoded %d", end-start, pos-start)
	}
	return ops, nil
}

// command decodes a single DVI command at pos.
func (d *Decoder) command(pos, char int) (Op, error) {
	code := Opcode(d.data[pos])
	h := Header{Pos: pos, Code: code, Size: 1}
	switch {
	case setCharRange.contains(code):
		return PlaceRaw{h}, nil
	case setRange.contains(code), putRange.contains(code):
		advance := setRange.contains(code)
		w := setRange.index(code) + 1
		if !advance {
			w = putRange.index(code) + 1
		}
		c, err := d.operand(pos+1, w, w == 4)
		if err != nil {
			return nil, malformed(pos, code, char, "truncated character code")
		}
		h.Size += w
		return Place{Header: h, Char: c, Advance: advance}, nil
	case code == SetRule, code == PutRule:
		a, err1 := d.data.signed(pos+1, 4)
		b, err2 := d.data.signed(pos+5, 4)
		if err := firstError(err1, err2); err != nil {
			return nil, malformed(pos, code, char, "truncated rule")
		}
		h.Size += 8
		return Ignored{Header: h, Kind: Rule, Args: []int32{a, b}}, nil
	case code == Nop:
		return Ignored{Header: h, Kind: Nothing}, nil
	case code == Push:
		return Ignored{Header: h, Kind: PushPos}, nil
	case code == Pop:
		return Ignored{Header: h, Kind: PopPos}, nil
	case code == W0, code == X0, code == Y0, code == Z0:
		return Ignored{Header: h, Kind: Move}, nil
	case fntNumRange.contains(code):
		return SelectFont{Header: h, FontNum: fntNumRange.index(code)}, nil
	case fntRange.contains(code):
		w := fntRange.index(code) + 1
		k, err := d.operand(pos+1, w, w == 4)
		if err != nil {
			return nil, malformed(pos, code, char, "truncated font number")
		}
		h.Size += w
		return SelectFont{Header: h, FontNum: k}, nil
	case xxxRange.contains(code):
		w := xxxRange.index(code) + 1
		k, err := d.operand(pos+1, w, w == 4)
		if err != nil {
			return nil, malformed(pos, code, char, "truncated special length")
		}
		if k < 0 {
			return nil, malformed(pos, code, char, "negative special length %d", k)
		}
		x, err := d.data.view(pos+1+w, k)
		if err != nil {
			return nil, malformed(pos, code, char, "special of %d bytes exceeds input", k)
		}
		h.Size += w + k
		return Ignored{Header: h, Kind: Special, Payload: x}, nil
	case fntDefRange.contains(code):
		return d.fontDefinition(pos, code, char)
	}
	if w, ok := moveWidth(code); ok {
		v, err := d.data.signed(pos+1, w)
		if err != nil {
			return nil, malformed(pos, code, char, "truncated movement")
		}
		h.Size += w
		return Ignored{Header: h, Kind: Move, Args: []int32{v}}, nil
	}
	// bop, eop, pre, post, post_post and undefined opcodes 250–255
	return nil, malformed(pos, code, char, "opcode %s not allowed in character program", code.Name())
}

// operand reads an operand of width w. Operands of width 1–3 are unsigned
// unless signed is set; width 4 is read as signed if signed is set.
func (d *Decoder) operand(at, w int, signed bool) (int, error) {
	if signed {
		v, err := d.data.signed(at, w)
		return int(v), err
	}
	v, err := d.data.unsigned(at, w)
	return int(v), err
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
