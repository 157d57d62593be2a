package dvi

import "errors"

// Reading bytes from a DVI program's binary representation.
// All multi-byte quantities are big-endian.

var errBufferBounds = errors.New("buffer bounds error")

// binarySegm is a segment of byte data. We use it throughout this package to
// navigate a VF file's binary data without copying it.
type binarySegm []byte

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) || offset+n < offset {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// unsigned returns the n-byte unsigned integer at offset, 1 ≤ n ≤ 4.
func (b binarySegm) unsigned(offset, n int) (uint32, error) {
	buf, err := b.view(offset, n)
	if err != nil {
		return 0, err
	}
	var v uint32
	for _, c := range buf {
		v = v<<8 | uint32(c)
	}
	return v, nil
}

// signed returns the n-byte two's complement integer at offset, 1 ≤ n ≤ 4.
func (b binarySegm) signed(offset, n int) (int32, error) {
	u, err := b.unsigned(offset, n)
	if err != nil {
		return 0, err
	}
	shift := uint(32 - 8*n)
	return int32(u<<shift) >> shift, nil
}

// appendUnsigned appends the n low-order bytes of v, big-endian.
// Negative values of signed operands are written in two's complement.
func appendUnsigned(buf []byte, v uint32, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

func appendSigned(buf []byte, v int32, n int) []byte {
	return appendUnsigned(buf, uint32(v), n)
}
