package fontregistry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

const abcEncoding = `/ABCEncoding [ /A /B /C /.notdef /nosuchglyph ] def`

func testTree(t *testing.T) testconfig.Conf {
	texmf := t.TempDir()
	fontdir := filepath.Join(texmf, "fonts", "truetype", "go")
	encdir := filepath.Join(texmf, "fonts", "enc", "dvips", "go")
	require.NoError(t, os.MkdirAll(fontdir, 0755))
	require.NoError(t, os.MkdirAll(encdir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(fontdir, "goregular.ttf"), goregular.TTF, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(encdir, "abc.enc"), []byte(abcEncoding), 0644))
	return testconfig.Conf{"texmf": texmf}
}

func TestRegistryLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	conf := testTree(t)
	fr := NewRegistry()
	src, err := fr.Load(context.Background(), conf, "goabc", "goregular.ttf", "abc")
	require.NoError(t, err)
	assert.Equal(t, "A", src.GlyphName(0))
	assert.Equal(t, "C", src.GlyphName(2))
	assert.Equal(t, "", src.GlyphName(3))
	assert.Equal(t, "", src.GlyphName(4), "glyph not in font")
	assert.Equal(t, []int{0, 1, 2}, src.Codes())
	cached, ok := fr.Source("GoABC")
	assert.True(t, ok)
	assert.Equal(t, src, cached)
	fr.LogFontList()
	assert.Equal(t, []string{"goabc"}, fr.Names())
}

func TestRegistryConcurrentLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	conf := testTree(t)
	fr := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fr.Load(context.Background(), conf, "goregular", "goregular.ttf", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"goregular"}, fr.Names())
}

func TestRegistryMissingFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	conf := testTree(t)
	fr := NewRegistry()
	_, err := fr.Load(context.Background(), conf, "x", "", "")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = fr.Load(context.Background(), conf, "goabc", "goregular.ttf", "no-such-encoding")
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, ok := fr.Source("goabc")
	assert.False(t, ok, "failed loads must not be cached")
}

func TestGlobalRegistry(t *testing.T) {
	assert.Same(t, GlobalRegistry(), GlobalRegistry())
}
