package dvi

import "fmt"

// Opcode is the discriminant byte of a DVI command or of a VF file packet.
type Opcode uint8

// DVI commands, as listed in dvitype.web, §§15–41. Families with operand widths
// 1–4 are represented by their first member.
const (
	SetChar0 Opcode = 0   // typeset character 0 and move right
	Set1     Opcode = 128 // typeset a character and move right
	SetRule  Opcode = 132 // typeset a rule and move right
	Put1     Opcode = 133 // typeset a character
	PutRule  Opcode = 137 // typeset a rule
	Nop      Opcode = 138 // no operation
	Bop      Opcode = 139 // beginning of page
	Eop      Opcode = 140 // ending of page
	Push     Opcode = 141 // save the current positions
	Pop      Opcode = 142 // restore previous positions
	Right1   Opcode = 143 // move right
	W0       Opcode = 147 // move right by w
	W1       Opcode = 148 // move right and set w
	X0       Opcode = 152 // move right by x
	X1       Opcode = 153 // move right and set x
	Down1    Opcode = 157 // move down
	Y0       Opcode = 161 // move down by y
	Y1       Opcode = 162 // move down and set y
	Z0       Opcode = 166 // move down by z
	Z1       Opcode = 167 // move down and set z
	FntNum0  Opcode = 171 // set current font to 0
	Fnt1     Opcode = 235 // set current font
	XXX1     Opcode = 239 // extension to DVI primitives
	XXX4     Opcode = 242 // potentially long extension to DVI primitives
	FntDef1  Opcode = 243 // the meaning of a font number
	Pre      Opcode = 247 // preamble
	Post     Opcode = 248 // postamble beginning
	PostPost Opcode = 249 // postamble ending
)

// VF file packets, as listed in vftovp.web, §§5–19. Outside of character
// programs, values 0–241 introduce short character packets, the value being
// the packet's length.
const (
	ShortChar0 Opcode = 0   // short character packet of length 0
	LongChar   Opcode = 242 // long character packet
)

// VFId is the identification byte of a VF preamble.
const VFId = 202

// MaxShortPacketLength is the largest body length a short character packet
// can express.
const MaxShortPacketLength = 241

// interval is a half-open range [from, to) of opcode values. Families of
// opcodes are matched by interval membership; the offset within the
// interval either is the operand itself or selects the operand width.
type interval struct {
	from, to int
}

func (iv interval) contains(o Opcode) bool {
	return int(o) >= iv.from && int(o) < iv.to
}

func (iv interval) index(o Opcode) int {
	return int(o) - iv.from
}

// Opcode ranges of DVI character programs.
var (
	setCharRange = interval{0, 128}   // set_char_0 … set_char_127
	setRange     = interval{128, 132} // set1 … set4
	putRange     = interval{133, 137} // put1 … put4
	rightRange   = interval{143, 147} // right1 … right4
	wRange       = interval{148, 152} // w1 … w4
	xRange       = interval{153, 157} // x1 … x4
	downRange    = interval{157, 161} // down1 … down4
	yRange       = interval{162, 166} // y1 … y4
	zRange       = interval{167, 171} // z1 … z4
	fntNumRange  = interval{171, 235} // fnt_num_0 … fnt_num_63
	fntRange     = interval{235, 239} // fnt1 … fnt4
	xxxRange     = interval{239, 243} // xxx1 … xxx4
	fntDefRange  = interval{243, 247} // fnt_def1 … fnt_def4
)

// Opcode ranges of VF files outside of character programs.
var (
	shortCharRange = interval{0, 242} // short_char0 … short_char241
)

// moveRanges are the explicit-operand movement families. Operands of
// movements are signed at every width.
var moveRanges = []interval{rightRange, wRange, xRange, downRange, yRange, zRange}

func moveWidth(o Opcode) (int, bool) {
	for _, iv := range moveRanges {
		if iv.contains(o) {
			return iv.index(o) + 1, true
		}
	}
	return 0, false
}

// Name returns the mnemonic of an opcode inside a DVI program, as dvitype
// prints it.
func (o Opcode) Name() string {
	switch {
	case setCharRange.contains(o):
		return fmt.Sprintf("setchar%d", o)
	case setRange.contains(o):
		return fmt.Sprintf("set%d", setRange.index(o)+1)
	case o == SetRule:
		return "setrule"
	case putRange.contains(o):
		return fmt.Sprintf("put%d", putRange.index(o)+1)
	case o == PutRule:
		return "putrule"
	case o == Nop:
		return "nop"
	case o == Bop:
		return "bop"
	case o == Eop:
		return "eop"
	case o == Push:
		return "push"
	case o == Pop:
		return "pop"
	case rightRange.contains(o):
		return fmt.Sprintf("right%d", rightRange.index(o)+1)
	case o == W0:
		return "w0"
	case wRange.contains(o):
		return fmt.Sprintf("w%d", wRange.index(o)+1)
	case o == X0:
		return "x0"
	case xRange.contains(o):
		return fmt.Sprintf("x%d", xRange.index(o)+1)
	case downRange.contains(o):
		return fmt.Sprintf("down%d", downRange.index(o)+1)
	case o == Y0:
		return "y0"
	case yRange.contains(o):
		return fmt.Sprintf("y%d", yRange.index(o)+1)
	case o == Z0:
		return "z0"
	case zRange.contains(o):
		return fmt.Sprintf("z%d", zRange.index(o)+1)
	case fntNumRange.contains(o):
		return fmt.Sprintf("fntnum%d", fntNumRange.index(o))
	case fntRange.contains(o):
		return fmt.Sprintf("fnt%d", fntRange.index(o)+1)
	case xxxRange.contains(o):
		return fmt.Sprintf("xxx%d", xxxRange.index(o)+1)
	case fntDefRange.contains(o):
		return fmt.Sprintf("fntdef%d", fntDefRange.index(o)+1)
	case o == Pre:
		return "pre"
	case o == Post:
		return "post"
	case o == PostPost:
		return "postpost"
	}
	return fmt.Sprintf("undefined%d", o)
}

// --- Operand widths --------------------------------------------------------

// unsignedWidth returns the smallest operand width for a command family
// whose operands are unsigned for widths 1–3 and signed for width 4.
func unsignedWidth(v int) int {
	switch {
	case v >= 0 && v < 1<<8:
		return 1
	case v >= 0 && v < 1<<16:
		return 2
	case v >= 0 && v < 1<<24:
		return 3
	}
	return 4
}

// signedWidth returns the smallest operand width for a signed operand.
func signedWidth(v int32) int {
	switch {
	case v >= -1<<7 && v < 1<<7:
		return 1
	case v >= -1<<15 && v < 1<<15:
		return 2
	case v >= -1<<23 && v < 1<<23:
		return 3
	}
	return 4
}
