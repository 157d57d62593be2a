package vf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/dimen"
	"github.com/npillmayer/htfgen/core/font/dvi"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// vfFile assembles the bytes of a VF file from records.
func vfFile(t *testing.T, records ...dvi.Op) []byte {
	ops := []dvi.Op{dvi.NewPreamble("htfgen test", 0, 10<<20)}
	ops = append(ops, records...)
	ops = append(ops, dvi.NewPostamble())
	data, err := dvi.EncodeAll(ops)
	require.NoError(t, err)
	return data
}

func fntdef(k int, name string) dvi.Op {
	return dvi.NewFontDefinition(k, name, 0, 1<<20, 10<<20)
}

func char(c int, body ...dvi.Op) dvi.Op {
	return dvi.NewCharacterDefinition(c, 1<<19, body...)
}

func TestResolveScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		fntdef(1, "cmbx10"),
		char(65, dvi.NewSetChar(40)),
		char(66, dvi.NewSelectFont(1), dvi.NewSetChar(41)),
		char(67, dvi.NewPush(), dvi.NewSetChar(10), dvi.NewPop(), dvi.NewRight(2*dimen.PT),
			dvi.NewSelectFont(1), dvi.NewSetChar(15)),
	)
	res, err := Resolve(data)
	require.NoError(t, err)
	expected := Resolution{
		65: {{Code: 40, Font: "cmr10"}},
		66: {{Code: 41, Font: "cmbx10"}},
		67: {{Code: 10, Font: "cmr10"}, {Code: 15, Font: "cmbx10"}},
	}
	if diff := cmp.Diff(expected, res); diff != "" {
		t.Errorf("resolution mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"cmbx10", "cmr10"}, res.Fonts())
}

func TestFontSelectionIsResetPerCharacter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		fntdef(5, "cmti10"),
		char(1, dvi.NewSelectFont(5), dvi.NewSetChar(1)),
		char(2, dvi.NewSetChar(2)),
	)
	res, err := Resolve(data)
	require.NoError(t, err)
	assert.Equal(t, []Glyph{{2, "cmr10"}}, res[2])
}

func TestPutIsTreatedLikeSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		char(0xe4, dvi.NewPut(0x7f), dvi.NewSetChar(0x61)),
		char(300, dvi.NewSetChar(0x1234)),
	)
	res, err := Resolve(data)
	require.NoError(t, err)
	assert.Equal(t, []Glyph{{0x7f, "cmr10"}, {0x61, "cmr10"}}, res[0xe4])
	assert.Equal(t, []Glyph{{0x1234, "cmr10"}}, res[300])
}

func TestKeySetEqualsCharacterDefinitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		char(32, dvi.NewRight(3*dimen.PT)), // invisible space
		char(33, dvi.NewSetChar(33)),
		char(34),
	)
	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []int{32, 33, 34}, f.Chars.Codes())
	assert.NotNil(t, f.Chars[32])
	assert.Empty(t, f.Chars[32])
	assert.Empty(t, f.Chars[34])
	assert.Len(t, f.Chars[33], 1)
	assert.Len(t, f.Packets, 3)
	assert.Equal(t, "htfgen test", f.Comment)
	assert.Equal(t, dimen.FixWord(10<<20), f.DesignSize)
}

func TestForwardFontReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		char(65, dvi.NewSelectFont(1), dvi.NewSetChar(65)),
		fntdef(1, "cmbx10"),
	)
	_, err := Resolve(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dvi.ErrUnknownFont), "expected unknown font, have %v", err)
	var e *dvi.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 65, e.Char)
	assert.Equal(t, int(dvi.FntNum0)+1, e.Opcode)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestNoCurrentFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		char(65, dvi.NewSetChar(65)),
		fntdef(0, "cmr10"),
	)
	_, err := Resolve(data)
	assert.True(t, errors.Is(err, dvi.ErrNoCurrentFont), "expected no current font, have %v", err)
}

func TestDuplicateFontDefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		fntdef(0, "cmr10"),
		fntdef(0, "cmbx10"),
	)
	_, err := Resolve(data)
	assert.True(t, errors.Is(err, dvi.ErrDuplicateFontDefinition))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestFontDefinitionInsideProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := vfFile(t,
		char(1, fntdef(7, "cmsy10"), dvi.NewSelectFont(7), dvi.NewSetChar(1)),
		char(2, dvi.NewSetChar(2)),
	)
	f, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, f.HasDefaultFont())
	assert.Equal(t, 7, f.DefaultFont)
	assert.Equal(t, []Glyph{{1, "cmsy10"}}, f.Chars[1])
	assert.Equal(t, []Glyph{{2, "cmsy10"}}, f.Chars[2], "font defined in program should become default")
}

func TestEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	f, err := Parse([]byte{})
	require.NoError(t, err)
	assert.Empty(t, f.Fonts)
	assert.NotNil(t, f.Chars)
	assert.Empty(t, f.Chars)
	assert.False(t, f.HasDefaultFont())
}

func TestMalformedBodyLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	data := []byte{
		byte(dvi.FntDef1), 0, 0, 0, 0, 0, 0, 0x10, 0, 0, 0, 0xa0, 0, 0, 0, 5, 'c', 'm', 'r', '1', '0',
		2, 65, 0, 0, 0, byte(dvi.Set1) + 1, 0, 65, // short_char2 with a 3-byte set2
		byte(dvi.Post),
	}
	_, err := Resolve(data)
	require.Error(t, err)
	var e *dvi.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dvi.MalformedStream, e.Kind)
	assert.Equal(t, 21+5, e.Offset)
}

func TestNestingCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	nested := func(depth int) []dvi.Op {
		inner := char(1, dvi.NewSetChar(1))
		for i := 1; i < depth; i++ {
			inner = char(1, inner)
		}
		return []dvi.Op{fntdef(0, "cmr10"), inner}
	}
	f, err := Interpret(NewSliceSource(nested(dvi.MaxNestingDepth)))
	require.NoError(t, err)
	assert.Equal(t, []Glyph{{1, "cmr10"}}, f.Chars[1])
	_, err = Interpret(NewSliceSource(nested(dvi.MaxNestingDepth + 1)))
	assert.True(t, errors.Is(err, dvi.ErrMalformedStream), "expected malformed stream, have %v", err)
}

func TestPlacementOutsideProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	_, err := Interpret(NewSliceSource([]dvi.Op{fntdef(0, "cmr10"), dvi.NewSetChar(3)}))
	assert.True(t, errors.Is(err, dvi.ErrMalformedStream))
}

// --- Files -----------------------------------------------------------------

type VFFileTestEnviron struct {
	suite.Suite
	dir      string
	teardown func()
}

func TestVFFiles(t *testing.T) {
	suite.Run(t, new(VFFileTestEnviron))
}

func (env *VFFileTestEnviron) SetupSuite() {
	env.teardown = gotestingadapter.QuickConfig(env.T(), "htfgen.fonts")
	env.dir = env.T().TempDir()
	data := vfFile(env.T(),
		fntdef(0, "ptmr8r"),
		char(0xc4, dvi.NewSetChar(0x41), dvi.NewPush(), dvi.NewSetChar(0xa8), dvi.NewPop()),
	)
	err := os.WriteFile(filepath.Join(env.dir, "ptmr8t.vf"), data, 0644)
	env.Require().NoError(err)
}

func (env *VFFileTestEnviron) TearDownSuite() {
	env.teardown()
}

func (env *VFFileTestEnviron) TestResolveFile() {
	res, err := ResolveFile(filepath.Join(env.dir, "ptmr8t.vf"))
	env.Require().NoError(err)
	env.Equal([]Glyph{{0x41, "ptmr8r"}, {0xa8, "ptmr8r"}}, res[0xc4])
}

func (env *VFFileTestEnviron) TestMissingFile() {
	_, err := LoadFile(filepath.Join(env.dir, "nothere.vf"))
	env.Error(err)
	env.Equal(core.EMISSING, core.Code(err))
}

func (env *VFFileTestEnviron) TestFontName() {
	env.Equal("ptmr8t", FontName("/usr/share/texmf/fonts/vf/ptmr8t.vf"))
}
