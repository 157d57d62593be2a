package psmap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const droidMap = `% droid.map, shortened
DroidSerif-Regular-01 DroidSerif "droid01Encoding ReEncodeFont" <[droid-01.enc <DroidSerif-Regular.pfb
DroidSerif-Bold-01 DroidSerif-Bold "droid01Encoding ReEncodeFont" <[droid-01.enc <DroidSerif-Bold.pfb
# comment
DroidSerif-Italic-02 DroidSerif-Italic "droid02Encoding ReEncodeFont" < droid-02.enc <DroidSerif-Italic.pfb

ptmr8r Times-Roman "TeXBase1Encoding ReEncodeFont" <8r.enc
ptmro8r Times-Roman "0.167 SlantFont TeXBase1Encoding ReEncodeFont" <8r.enc
psyr Symbol
* another comment
`

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	entries, err := Parse(strings.NewReader(droidMap))
	require.NoError(t, err)
	require.Len(t, entries, 6)
	want := Entry{
		TeXName:  "DroidSerif-Regular-01",
		PSName:   "DroidSerif",
		Encoding: "droid-01.enc",
		FontFile: "DroidSerif-Regular.pfb",
		Special:  "droid01Encoding ReEncodeFont",
	}
	if diff := cmp.Diff(want, entries[0]); diff != "" {
		t.Errorf("first entry mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "droid-02.enc", entries[2].Encoding)
	assert.Equal(t, "DroidSerif-Italic.pfb", entries[2].FontFile)
	assert.Equal(t, "", entries[3].FontFile)
	assert.Equal(t, "0.167 SlantFont TeXBase1Encoding ReEncodeFont", entries[4].Special)
	assert.Equal(t, Entry{TeXName: "psyr", PSName: "Symbol"}, entries[5])
}

func TestGroupByEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	entries, err := Parse(strings.NewReader(droidMap))
	require.NoError(t, err)
	groups := GroupByEncoding(entries)
	want := map[string][]string{
		"droid-01.enc": {"DroidSerif-Regular-01", "DroidSerif-Bold-01"},
		"droid-02.enc": {"DroidSerif-Italic-02"},
		"8r.enc":       {"ptmr8r", "ptmro8r"},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("grouping mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"8r.enc", "droid-01.enc", "droid-02.enc"}, Encodings(groups))
}

func TestParseError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	_, err := Parse(strings.NewReader("cmr10 CMR10\nptmr8r Times-Roman \"TeXBase1Encoding <8r.enc\n"))
	require.Error(t, err)
	assert.Equal(t, core.EFORMAT, core.Code(err))
	assert.Contains(t, err.Error(), "line 2")
}
