package testdoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/htfgen/backend/htf"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestWriteLaTeX(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.htf")
	defer teardown()
	//
	var buf bytes.Buffer
	err := WriteLaTeX(&buf, "droid_fonts", []string{"DroidSerif-Regular-t1", "DroidSans-Bold-t1"})
	require.NoError(t, err)
	doc := buf.String()
	assert.Contains(t, doc, `\section*{droid\_fonts}`)
	assert.Contains(t, doc, `\font\testfonta=DroidSans-Bold-t1`)
	assert.Contains(t, doc, `\font\testfontb=DroidSerif-Regular-t1`)
	assert.Contains(t, doc, `{\testfontb\char255}`)
	assert.Equal(t, 2*256, strings.Count(doc, `\char`))
	assert.True(t, strings.HasSuffix(doc, "\\end{document}\n"))
}

func TestCSName(t *testing.T) {
	assert.Equal(t, "a", csname(0))
	assert.Equal(t, "z", csname(25))
	assert.Equal(t, "aa", csname(26))
	assert.Equal(t, "ab", csname(27))
}

func TestWriteHTMLPreview(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.htf")
	defer teardown()
	//
	table := htf.NewTable("test")
	table.Set(60, htf.Entry{Text: "&#x3c;", Comment: "less"})
	table.Set(65, htf.Entry{Text: "&#x41;", Comment: "A"})
	table.Set(66, htf.Entry{Class: htf.PictorialClass, Comment: "ornament"})
	var buf bytes.Buffer
	require.NoError(t, WriteHTMLPreview(&buf, "Preview", []*htf.Table{table, htf.NewTable("empty")}))
	out := buf.String()
	assert.Contains(t, out, "<title>Preview</title>")
	assert.Contains(t, out, `<table id="test">`)
	assert.Contains(t, out, "<td>&lt;</td>", "text must be escaped")
	assert.Contains(t, out, `<tr class="pictorial">`)
	assert.NotContains(t, out, `id="empty"`)
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, cascadia.MustCompile("table#test tr").MatchAll(doc), 4, "header row plus three entries")
	cells := cascadia.MustCompile("tr.pictorial td").MatchAll(doc)
	require.Len(t, cells, 4)
	require.NotNil(t, cells[3].FirstChild)
	assert.Equal(t, "ornament", cells[3].FirstChild.Data)
}
