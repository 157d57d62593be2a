package dvi

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every command family in both its range-encoded and explicit forms.
var programSamples = []struct {
	name  string
	bytes []byte
}{
	{"set_char_40", []byte{40}},
	{"set1", []byte{byte(Set1), 200}},
	{"set2", []byte{byte(Set1) + 1, 1, 44}},
	{"set3", []byte{byte(Set1) + 2, 1, 0, 0}},
	{"set4", []byte{byte(Set1) + 3, 0xff, 0xff, 0xff, 0xfe}},
	{"set_rule", []byte{byte(SetRule), 0, 0, 0, 1, 0, 0, 0, 2}},
	{"put1", []byte{byte(Put1), 7}},
	{"put4", []byte{byte(Put1) + 3, 0, 0, 1, 0}},
	{"put_rule", []byte{byte(PutRule), 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 2}},
	{"nop", []byte{byte(Nop)}},
	{"push", []byte{byte(Push)}},
	{"pop", []byte{byte(Pop)}},
	{"right1", []byte{byte(Right1), 0xfe}},
	{"right4", []byte{byte(Right1) + 3, 0x80, 0, 0, 0}},
	{"w0", []byte{byte(W0)}},
	{"w1", []byte{byte(W1), 5}},
	{"x0", []byte{byte(X0)}},
	{"x3", []byte{byte(X1) + 2, 1, 2, 3}},
	{"down1", []byte{byte(Down1), 0xff}},
	{"y0", []byte{byte(Y0)}},
	{"y2", []byte{byte(Y1) + 1, 0xff, 0}},
	{"z0", []byte{byte(Z0)}},
	{"z4", []byte{byte(Z1) + 3, 0, 0, 0, 9}},
	{"fnt_num_0", []byte{byte(FntNum0)}},
	{"fnt_num_63", []byte{byte(FntNum0) + 63}},
	{"fnt1", []byte{byte(Fnt1), 70}},
	{"fnt4", []byte{byte(Fnt1) + 3, 0, 0, 1, 0}},
	{"xxx1", []byte{byte(XXX1), 3, 'a', 'b', 'c'}},
	{"xxx2", []byte{byte(XXX1) + 1, 0, 2, 'h', 'i'}},
	{"fnt_def1", append([]byte{byte(FntDef1), 1,
		0, 0, 0, 1, // checksum
		0, 0x10, 0, 0, // scale
		0, 0xa0, 0, 0, // design size
		0, 5}, "cmr10"...)},
}

var fileSamples = []struct {
	name  string
	bytes []byte
}{
	{"pre", []byte{byte(Pre), VFId, 3, 'a', 'b', 'c', 1, 2, 3, 4, 0, 0xa0, 0, 0}},
	{"short_char3", []byte{3, 65, 0, 0, 1, 40, byte(FntNum0), 41}},
	{"short_char0", []byte{0, 32, 0, 0x80, 0}},
	{"long_char", []byte{byte(LongChar), 0, 0, 0, 2, 0, 0, 1, 0, 0, 0, 0, 5, byte(Set1), 200}},
	{"fnt_def2", append([]byte{byte(FntDef1) + 1, 1, 0,
		0, 0, 0, 0,
		0, 0x10, 0, 0,
		0, 0xa0, 0, 0,
		2, 6}, "psfmcmr5"...)},
	{"post", []byte{byte(Post)}},
}

func TestRoundTripProgramCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	for _, sample := range programSamples {
		ops, err := DecodeProgram(sample.bytes)
		require.NoError(t, err, sample.name)
		require.Len(t, ops, 1, sample.name)
		assert.Equal(t, len(sample.bytes), ops[0].Len(), "%s: length", sample.name)
		enc, err := Encode(ops[0])
		require.NoError(t, err, sample.name)
		assert.Equal(t, sample.bytes, enc, sample.name)
	}
}

func TestRoundTripFilePackets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	for _, sample := range fileSamples {
		ops, err := Decode(sample.bytes)
		require.NoError(t, err, sample.name)
		require.Len(t, ops, 1, sample.name)
		assert.Equal(t, len(sample.bytes), ops[0].Len(), "%s: length", sample.name)
		enc, err := Encode(ops[0])
		require.NoError(t, err, sample.name)
		assert.Equal(t, sample.bytes, enc, sample.name)
	}
}

func TestFontDefinitionWithArea(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	ops, err := Decode(fileSamples[4].bytes)
	require.NoError(t, err)
	fd := ops[0].(FontDefinition)
	assert.Equal(t, 256, fd.FontNum)
	assert.Equal(t, "ps", fd.Area)
	assert.Equal(t, "fmcmr5", fd.TeXName())
}

func TestConstructorsChooseShortestEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	assert.Equal(t, Opcode(65), NewSetChar(65).Opcode())
	assert.Equal(t, Set1, NewSetChar(128).Opcode())
	assert.Equal(t, Set1+2, NewSetChar(0x10000).Opcode())
	assert.Equal(t, Put1, NewPut(3).Opcode())
	assert.Equal(t, FntNum0+63, NewSelectFont(63).Opcode())
	assert.Equal(t, Fnt1, NewSelectFont(64).Opcode())
	assert.Equal(t, Right1, NewRight(-128).Opcode())
	assert.Equal(t, Right1+1, NewRight(128).Opcode())
	cd := NewCharacterDefinition(300, 0, NewSetChar(1))
	assert.True(t, cd.Long, "char code > 255 requires long packet")
	for _, op := range []Op{NewSetChar(0x10000), NewSpecial("color push"), NewRule(1, 2, true),
		NewDown(-1), NewPush(), NewPop(), NewPostamble(), cd} {
		enc, err := Encode(op)
		require.NoError(t, err)
		assert.Equal(t, op.Len(), len(enc), "%v", op)
	}
}

func TestEncodeRejectsInconsistentRecord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	bad := SelectFont{Header: Header{Code: FntNum0 + 3, Size: 1}, FontNum: 4}
	_, err := Encode(bad)
	assert.Error(t, err)
	_, err = Encode(Place{Header: Header{Code: Put1, Size: 2}, Char: 1, Advance: true})
	assert.Error(t, err)
}
