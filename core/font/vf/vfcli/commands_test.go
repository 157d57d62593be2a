package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font/dvi"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntp(t *testing.T) (*Intp, *[]string) {
	var out []string
	intp := NewIntp(testconfig.Conf{"texmf": t.TempDir()})
	intp.printf = func(format string, args ...interface{}) {
		out = append(out, fmt.Sprintf(format, args...))
	}
	ops := []dvi.Op{
		dvi.NewPreamble("test", 0, 10<<20),
		dvi.NewFontDefinition(0, "ecrm1000", 0, 1<<20, 10<<20),
		dvi.NewFontDefinition(3, "tcrm1000", 0, 1<<20, 10<<20),
		dvi.NewCharacterDefinition(65, 1<<19, dvi.NewSetChar(65)),
		dvi.NewCharacterDefinition(196, 1<<19, dvi.NewPush(), dvi.NewSetChar(4), dvi.NewPop(),
			dvi.NewSelectFont(3), dvi.NewSetChar(65)),
		dvi.NewPostamble(),
	}
	data, err := dvi.EncodeAll(ops)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vtest.vf")
	require.NoError(t, os.WriteFile(path, data, 0644))
	err, quit := intp.execute("lo " + path)
	require.NoError(t, err)
	require.False(t, quit)
	return intp, &out
}

func TestLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	intp := NewIntp(testconfig.Conf{})
	for word, name := range map[string]string{
		"char": "char", "chars": "chars", "f": "fonts", "Q": "quit", "he": "help", "o": "ops",
	} {
		cmd, err := intp.lookup(word)
		require.NoError(t, err, word)
		assert.Equal(t, name, cmd.name, word)
	}
	_, err := intp.lookup("ch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "char, chars")
	_, err = intp.lookup("x")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestParseCode(t *testing.T) {
	for s, code := range map[string]int{
		"65": 65, "0x41": 65, "'101": 65, `"41`: 65, "`A": 65, "A": 65, "Ä": 196, "7": 7,
	} {
		c, err := parseCode(s)
		require.NoError(t, err, s)
		assert.Equal(t, code, c, s)
	}
	for _, s := range []string{"AB", "'9", "0xg", "`"} {
		_, err := parseCode(s)
		assert.Error(t, err, s)
	}
}

func TestCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	intp, out := testIntp(t)
	assert.Equal(t, "vtest", intp.fontname)
	*out = nil
	err, _ := intp.execute("fonts")
	require.NoError(t, err)
	require.Len(t, *out, 2)
	assert.True(t, strings.HasPrefix((*out)[0], "  0  ecrm1000"))
	assert.Contains(t, (*out)[0], "(default)")
	//
	*out = nil
	err, _ = intp.execute("chars")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"char 65 (A)  ecrm1000/65",
		"char 196  ecrm1000/4 tcrm1000/65",
	}, *out)
	//
	*out = nil
	err, _ = intp.execute("char Ä")
	require.NoError(t, err)
	assert.Equal(t, 3, len(*out))
	//
	*out = nil
	err, _ = intp.execute("op 196")
	require.NoError(t, err)
	assert.Equal(t, 6, len(*out), "header and five commands")
	//
	err, _ = intp.execute("char 66")
	assert.Equal(t, core.EMISSING, core.Code(err))
	err, quit := intp.execute("q")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestNoFontLoaded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "htfgen.fonts")
	defer teardown()
	//
	intp := NewIntp(testconfig.Conf{"texmf": t.TempDir()})
	err, _ := intp.execute("chars")
	assert.Equal(t, core.EINVALID, core.Code(err))
	err, _ = intp.execute("load nosuchfont")
	assert.Equal(t, core.EMISSING, core.Code(err))
}
