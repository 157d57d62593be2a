package dvi

import (
	"fmt"

	"github.com/npillmayer/htfgen/core/dimen"
)

// Op is an opcode record, i.e. one decoded DVI command or VF packet.
// The set of record types is closed; clients switch on the concrete type:
//
//	switch op := op.(type) {
//	case dvi.FontDefinition:
//	case dvi.CharacterDefinition:
//	case dvi.SelectFont:
//	case dvi.Place:
//	case dvi.PlaceRaw:
//	case dvi.Ignored:
//	}
//
// Every record accounts for the exact number of bytes it was decoded from,
// including nested character programs.
type Op interface {
	Offset() int    // byte offset of the discriminant
	Opcode() Opcode // discriminant value
	Len() int       // number of bytes consumed
	isOp()
}

// Header holds the byte-level bookkeeping common to all records.
type Header struct {
	Pos  int
	Code Opcode
	Size int
}

// Offset is part of interface Op.
func (h Header) Offset() int { return h.Pos }

// Opcode is part of interface Op.
func (h Header) Opcode() Opcode { return h.Code }

// Len is part of interface Op.
func (h Header) Len() int { return h.Size }

func (Header) isOp() {}

// FontDefinition declares a numeric handle for a real font (fnt_def1…4).
type FontDefinition struct {
	Header
	FontNum    int
	Checksum   uint32
	Scale      dimen.FixWord // relative to the design size of the virtual font
	DesignSize dimen.FixWord
	Area       string
	Name       string
}

// TeXName is the font's name as TeX knows it, without area.
func (fd FontDefinition) TeXName() string {
	return fd.Name
}

func (fd FontDefinition) String() string {
	return fmt.Sprintf("fntdef%d %d: %s%s", fontDefRangeWidth(fd.Code), fd.FontNum, fd.Area, fd.Name)
}

// CharacterDefinition is a VF character packet, declaring the DVI program of
// one virtual character.
type CharacterDefinition struct {
	Header
	Char       int
	TFMWidth   dimen.FixWord
	Long       bool // long_char packet, otherwise short_char
	BodyOffset int  // byte offset of the first body command
	Body       []Op
}

func (cd CharacterDefinition) String() string {
	return fmt.Sprintf("char %d: %d commands, %d bytes", cd.Char, len(cd.Body), cd.Size)
}

// SelectFont switches the current font, either by range opcode fnt_num_i or
// by fnt1…4.
type SelectFont struct {
	Header
	FontNum int
}

func (sf SelectFont) String() string {
	return fmt.Sprintf("%s %d", sf.Code.Name(), sf.FontNum)
}

// Place typesets a character with an explicit operand: set1…4 (Advance) or
// put1…4.
type Place struct {
	Header
	Char    int
	Advance bool
}

func (p Place) String() string {
	return fmt.Sprintf("%s %d", p.Code.Name(), p.Char)
}

// PlaceRaw is a set_char_i command. The character code is the opcode value.
type PlaceRaw struct {
	Header
}

// Char returns the character code encoded in the opcode.
func (p PlaceRaw) Char() int {
	return setCharRange.index(p.Code)
}

func (p PlaceRaw) String() string {
	return p.Code.Name()
}

// IgnoredKind classifies commands irrelevant for font resolution.
type IgnoredKind int

// Kinds of ignored commands.
const (
	Nothing IgnoredKind = iota // nop
	Rule
	Move
	PushPos
	PopPos
	Special
	Preamble
	Postamble
)

func (k IgnoredKind) String() string {
	switch k {
	case Nothing:
		return "nop"
	case Rule:
		return "rule"
	case Move:
		return "move"
	case PushPos:
		return "push"
	case PopPos:
		return "pop"
	case Special:
		return "special"
	case Preamble:
		return "preamble"
	case Postamble:
		return "postamble"
	}
	return "?"
}

// Ignored is a command which has no effect on font resolution.
// Args holds its numeric operands in file order, Payload its string operand
// (xxx strings and the preamble comment). For a preamble, Args is
// [id, checksum, design size].
type Ignored struct {
	Header
	Kind    IgnoredKind
	Args    []int32
	Payload []byte
}

func (ig Ignored) String() string {
	if ig.Kind == Preamble || ig.Kind == Postamble {
		return ig.Kind.String()
	}
	if len(ig.Payload) > 0 {
		return fmt.Sprintf("%s %q", ig.Code.Name(), ig.Payload)
	}
	return fmt.Sprintf("%s %v", ig.Code.Name(), ig.Args)
}

func fontDefRangeWidth(code Opcode) int {
	if fntDefRange.contains(code) {
		return fntDefRange.index(code) + 1
	}
	return 0
}

// --- Constructors ----------------------------------------------------------
//
// The constructors choose the shortest encoding for a command, as TeX and
// vptovf do. Records created this way report correct lengths and may be
// passed to Encode.

// NewSetChar creates a command to typeset character c and advance.
func NewSetChar(c int) Op {
	if c >= setCharRange.from && c < setCharRange.to {
		return PlaceRaw{Header{Code: Opcode(c), Size: 1}}
	}
	w := unsignedWidth(c)
	return Place{Header: Header{Code: Set1 + Opcode(w-1), Size: 1 + w}, Char: c, Advance: true}
}

// NewPut creates a command to typeset character c without advancing.
func NewPut(c int) Op {
	w := unsignedWidth(c)
	return Place{Header: Header{Code: Put1 + Opcode(w-1), Size: 1 + w}, Char: c}
}

// NewSelectFont creates a command to switch to font number k.
func NewSelectFont(k int) Op {
	if k >= 0 && k < fntNumRange.to-fntNumRange.from {
		return SelectFont{Header: Header{Code: FntNum0 + Opcode(k), Size: 1}, FontNum: k}
	}
	w := unsignedWidth(k)
	return SelectFont{Header: Header{Code: Fnt1 + Opcode(w-1), Size: 1 + w}, FontNum: k}
}

// NewFontDefinition creates a fnt_def command for font number k.
func NewFontDefinition(k int, name string, checksum uint32, scale, designSize dimen.FixWord) FontDefinition {
	w := unsignedWidth(k)
	return FontDefinition{
		Header:     Header{Code: FntDef1 + Opcode(w-1), Size: 1 + w + 12 + 2 + len(name)},
		FontNum:    k,
		Checksum:   checksum,
		Scale:      scale,
		DesignSize: designSize,
		Name:       name,
	}
}

// NewCharacterDefinition creates a character packet for character c with the
// given program. A short packet is used whenever the packet fits.
func NewCharacterDefinition(c int, tfmWidth dimen.FixWord, body ...Op) CharacterDefinition {
	pl := 0
	for _, op := range body {
		pl += op.Len()
	}
	cd := CharacterDefinition{Char: c, TFMWidth: tfmWidth, Body: body}
	if fitsShortPacket(pl, c, tfmWidth) {
		cd.Header = Header{Code: ShortChar0 + Opcode(pl), Size: 5 + pl}
		cd.BodyOffset = 5
	} else {
		cd.Header = Header{Code: LongChar, Size: 13 + pl}
		cd.Long = true
		cd.BodyOffset = 13
	}
	return cd
}

func fitsShortPacket(pl, c int, tfmWidth dimen.FixWord) bool {
	return pl <= MaxShortPacketLength && c >= 0 && c < 256 && tfmWidth >= 0 && tfmWidth < 1<<24
}

// NewPreamble creates a VF preamble.
func NewPreamble(comment string, checksum uint32, designSize dimen.FixWord) Ignored {
	return Ignored{
		Header:  Header{Code: Pre, Size: 3 + len(comment) + 8},
		Kind:    Preamble,
		Args:    []int32{VFId, int32(checksum), int32(designSize)},
		Payload: []byte(comment),
	}
}

// NewPostamble creates the postamble command.
func NewPostamble() Ignored {
	return Ignored{Header: Header{Code: Post, Size: 1}, Kind: Postamble}
}

// NewPush creates a push command.
func NewPush() Ignored {
	return Ignored{Header: Header{Code: Push, Size: 1}, Kind: PushPos}
}

// NewPop creates a pop command.
func NewPop() Ignored {
	return Ignored{Header: Header{Code: Pop, Size: 1}, Kind: PopPos}
}

// NewRight creates a right1…4 command.
func NewRight(d dimen.Dimen) Ignored {
	return newMove(Right1, int32(d))
}

// NewDown creates a down1…4 command.
func NewDown(d dimen.Dimen) Ignored {
	return newMove(Down1, int32(d))
}

func newMove(base Opcode, v int32) Ignored {
	w := signedWidth(v)
	return Ignored{
		Header: Header{Code: base + Opcode(w-1), Size: 1 + w},
		Kind:   Move,
		Args:   []int32{v},
	}
}

// NewRule creates a set_rule (advance=true) or put_rule command.
func NewRule(height, width dimen.Dimen, advance bool) Ignored {
	code := PutRule
	if advance {
		code = SetRule
	}
	return Ignored{
		Header: Header{Code: code, Size: 9},
		Kind:   Rule,
		Args:   []int32{int32(height), int32(width)},
	}
}

// NewSpecial creates an xxx command carrying s.
func NewSpecial(s string) Ignored {
	w := unsignedWidth(len(s))
	return Ignored{
		Header:  Header{Code: XXX1 + Opcode(w-1), Size: 1 + w + len(s)},
		Kind:    Special,
		Payload: []byte(s),
	}
}
