package dvi

import (
	"fmt"
)

// Encode returns the binary representation of a record. For records
// produced by the decoder, Encode reproduces the bytes they were decoded
// from, as the opcode value of each record fixes its operand widths.
func Encode(op Op) ([]byte, error) {
	return appendOp(nil, op)
}

// EncodeAll concatenates the binary representations of a sequence of
// records, e.g. to assemble a VF file.
func EncodeAll(ops []Op) ([]byte, error) {
	var buf []byte
	var err error
	for _, op := range ops {
		if buf, err = appendOp(buf, op); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func appendOp(buf []byte, op Op) ([]byte, error) {
	code := op.Opcode()
	switch op := op.(type) {
	case PlaceRaw:
		if !setCharRange.contains(code) {
			return nil, encodingError(op, "opcode is not a set_char_i command")
		}
		return append(buf, byte(code)), nil
	case Place:
		var iv interval
		switch {
		case op.Advance && setRange.contains(code):
			iv = setRange
		case !op.Advance && putRange.contains(code):
			iv = putRange
		default:
			return nil, encodingError(op, "opcode does not match placement")
		}
		w := iv.index(code) + 1
		buf = append(buf, byte(code))
		return appendOperand(buf, op.Char, w), nil
	case SelectFont:
		switch {
		case fntNumRange.contains(code):
			if fntNumRange.index(code) != op.FontNum {
				return nil, encodingError(op, "font number %d does not match opcode", op.FontNum)
			}
			return append(buf, byte(code)), nil
		case fntRange.contains(code):
			buf = append(buf, byte(code))
			return appendOperand(buf, op.FontNum, fntRange.index(code)+1), nil
		}
		return nil, encodingError(op, "opcode does not select a font")
	case FontDefinition:
		if !fntDefRange.contains(code) {
			return nil, encodingError(op, "opcode is not a font definition")
		}
		if len(op.Area) > 255 || len(op.Name) > 255 {
			return nil, encodingError(op, "font name too long")
		}
		buf = append(buf, byte(code))
		buf = appendOperand(buf, op.FontNum, fntDefRange.index(code)+1)
		buf = appendUnsigned(buf, op.Checksum, 4)
		buf = appendSigned(buf, int32(op.Scale), 4)
		buf = appendSigned(buf, int32(op.DesignSize), 4)
		buf = append(buf, byte(len(op.Area)), byte(len(op.Name)))
		buf = append(buf, op.Area...)
		return append(buf, op.Name...), nil
	case CharacterDefinition:
		return appendCharacterDefinition(buf, op)
	case Ignored:
		return appendIgnored(buf, op)
	}
	return nil, fmt.Errorf("cannot encode record of type %T", op)
}

func appendCharacterDefinition(buf []byte, cd CharacterDefinition) ([]byte, error) {
	body, err := EncodeAll(cd.Body)
	if err != nil {
		return nil, err
	}
	pl := len(body)
	if cd.Long || !fitsShortPacket(pl, cd.Char, cd.TFMWidth) {
		buf = append(buf, byte(LongChar))
		buf = appendUnsigned(buf, uint32(pl), 4)
		buf = appendUnsigned(buf, uint32(cd.Char), 4)
		buf = appendSigned(buf, int32(cd.TFMWidth), 4)
	} else {
		buf = append(buf, byte(ShortChar0)+byte(pl), byte(cd.Char))
		buf = appendUnsigned(buf, uint32(cd.TFMWidth), 3)
	}
	return append(buf, body...), nil
}

func appendIgnored(buf []byte, ig Ignored) ([]byte, error) {
	code := ig.Code
	switch ig.Kind {
	case Nothing, PushPos, PopPos, Postamble:
		return append(buf, byte(code)), nil
	case Rule:
		if len(ig.Args) != 2 {
			return nil, encodingError(ig, "rule needs 2 operands")
		}
		buf = append(buf, byte(code))
		buf = appendSigned(buf, ig.Args[0], 4)
		return appendSigned(buf, ig.Args[1], 4), nil
	case Move:
		buf = append(buf, byte(code))
		if w, ok := moveWidth(code); ok {
			if len(ig.Args) != 1 {
				return nil, encodingError(ig, "movement needs 1 operand")
			}
			return appendSigned(buf, ig.Args[0], w), nil
		}
		return buf, nil
	case Special:
		if !xxxRange.contains(code) {
			return nil, encodingError(ig, "opcode is not a special")
		}
		buf = append(buf, byte(code))
		buf = appendOperand(buf, len(ig.Payload), xxxRange.index(code)+1)
		return append(buf, ig.Payload...), nil
	case Preamble:
		if len(ig.Args) != 3 || len(ig.Payload) > 255 {
			return nil, encodingError(ig, "malformed preamble record")
		}
		buf = append(buf, byte(Pre), byte(ig.Args[0]), byte(len(ig.Payload)))
		buf = append(buf, ig.Payload...)
		buf = appendSigned(buf, ig.Args[1], 4)
		return appendSigned(buf, ig.Args[2], 4), nil
	}
	return nil, encodingError(ig, "unknown kind of command")
}

func appendOperand(buf []byte, v int, w int) []byte {
	return appendUnsigned(buf, uint32(v), w)
}

func encodingError(op Op, format string, v ...interface{}) error {
	return fmt.Errorf("cannot encode %s at offset %d: %s", op.Opcode().Name(), op.Offset(),
		fmt.Sprintf(format, v...))
}
