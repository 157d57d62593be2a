package font

import (
	"strings"
	"testing"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/postscript/type1"
)

const testEncoding = `% test encoding, derived from cm-super-t1.enc
/TestEncoding [
% 0x00
/grave /acute /circumflex
/A /B
/.notdef /Adieresis % 5 and 6
/uni0416
] def
`

func TestReadEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	enc, err := ReadEncoding(strings.NewReader(testEncoding))
	require.NoError(t, err)
	assert.Equal(t, "TestEncoding", enc.Name)
	assert.Equal(t, "grave", enc.Glyphs[0])
	assert.Equal(t, "A", enc.Glyphs[3])
	assert.Equal(t, NotDef, enc.Glyphs[5])
	assert.Equal(t, "uni0416", enc.Glyphs[7])
	assert.Equal(t, NotDef, enc.Glyphs[255], "short vectors should be padded")
	c, ok := enc.Code("Adieresis")
	assert.True(t, ok)
	assert.Equal(t, 6, c)
}

func TestReadEncodingAdjacentNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	enc, err := ReadEncoding(strings.NewReader("/E [/a/b\n/c%comment\n/d] def"))
	require.NoError(t, err)
	assert.Equal(t, "E", enc.Name)
	assert.Equal(t, []string{"a", "b", "c", "d", NotDef}, enc.Glyphs[:5])
}

func TestReadBrokenEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	for _, input := range []string{
		"/Enc /A /B def",
		"/Enc [ /A [ /B ] ] def",
		"/Enc ] def",
		"/Enc [" + strings.Repeat(" /a", 257) + " ] def",
		"/Enc1 [ /A ] def /Enc2 [ /B ] def",
		"",
	} {
		_, err := ReadEncoding(strings.NewReader(input))
		assert.Error(t, err, input)
		assert.Equal(t, core.EFORMAT, core.Code(err), input)
	}
}

func testType1Font() *Type1Font {
	encoding := make([]string, 256)
	for i := range encoding {
		encoding[i] = NotDef
	}
	encoding['A'] = "A"
	encoding['B'] = "B"
	encoding[0xc4] = "Adieresis" // not in glyph set
	ps := &type1.Font{
		FontInfo: &type1.FontInfo{FontName: "TestSerif-Regular"},
		Outlines: &type1.Outlines{
			Glyphs: map[string]*type1.Glyph{
				NotDef:    {},
				"A":       {},
				"B":       {},
				"grave":   {},
				"uni0416": {},
			},
			Encoding: encoding,
		},
	}
	return NewType1Font(ps)
}

func TestType1GlyphSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	f := testType1Font()
	assert.Equal(t, "TestSerif-Regular", f.Name())
	assert.Equal(t, "A", f.GlyphName('A'))
	assert.Equal(t, "", f.GlyphName(0xc4), "glyph not in font")
	assert.Equal(t, "", f.GlyphName(300))
	assert.Equal(t, []int{'A', 'B'}, f.Codes())
}

func TestReencode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	enc, err := ReadEncoding(strings.NewReader(testEncoding))
	require.NoError(t, err)
	src := Reencode(testType1Font(), enc)
	assert.Equal(t, "TestSerif-Regular", src.Name())
	assert.Equal(t, []int{0, 3, 4, 7}, src.Codes())
	assert.Equal(t, "grave", src.GlyphName(0))
	assert.Equal(t, "", src.GlyphName(6), "Adieresis is missing from font")
}

func TestOpenTypeGlyphSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	f, err := ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Name())
	assert.NotEmpty(t, f.GlyphName('A'))
	assert.Equal(t, "", f.GlyphName(0x1000))
	assert.Contains(t, f.Codes(), int('z'))
	if name := f.GlyphName('a'); !strings.HasPrefix(name, "uni") {
		assert.True(t, f.HasGlyph(name), "glyph %s should be known by name", name)
	}
	assert.False(t, f.HasGlyph("no-such-glyph"))
	_, err = ParseOpenTypeFont([]byte("not a font"))
	assert.Equal(t, core.EFORMAT, core.Code(err))
}

func TestUnicodeFor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	assert.Equal(t, []rune{'A'}, UnicodeFor("A"))
	assert.Equal(t, []rune{'ä'}, UnicodeFor("adieresis"))
	assert.Equal(t, []rune{'Ж'}, UnicodeFor("uni0416"))
	assert.Nil(t, UnicodeFor(NotDef))
	assert.Nil(t, UnicodeFor(""))
}

func TestNormalizeFontname(t *testing.T) {
	assert.Equal(t, "droidserif-regular", NormalizeFontname("/usr/share/fonts/DroidSerif-Regular.pfb"))
	assert.Equal(t, "gill_sans_mt", NormalizeFontname("Gill Sans MT.ttf"))
}
