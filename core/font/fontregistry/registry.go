package fontregistry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font"
	"github.com/npillmayer/htfgen/core/locate/resources"
	"github.com/npillmayer/schuko"
)

// Registry is a type for holding glyph sources of TeX fonts.
type Registry struct {
	sync.Mutex
	sources   map[string]font.GlyphSource
	encodings map[string]*font.Encoding
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold loaded glyph
// sources.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	fr := &Registry{
		sources:   make(map[string]font.GlyphSource),
		encodings: make(map[string]*font.Encoding),
	}
	return fr
}

// StoreSource pushes a glyph source into the registry if it isn't contained yet.
//
// The source will be stored using the normalized TeX font name as a key. If
// this key is already associated with a source, that source will not be
// overridden.
func (fr *Registry) StoreSource(texname string, src font.GlyphSource) {
	if src == nil {
		tracer().Errorf("registry cannot store null glyph source")
		return
	}
	key := font.NormalizeFontname(texname)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.sources[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", src.Name(), key)
		fr.sources[key] = src
	}
}

// Source returns the glyph source stored for a TeX font name.
func (fr *Registry) Source(texname string) (font.GlyphSource, bool) {
	fr.Lock()
	defer fr.Unlock()
	src, ok := fr.sources[font.NormalizeFontname(texname)]
	return src, ok
}

// Load returns the glyph source for a TeX font, consisting of a glyph file
// and an optional encoding file. Files are located with package resources.
// If the font has been loaded before, the cached source is returned.
func (fr *Registry) Load(ctx context.Context, conf schuko.Configuration, texname, glyphfile, encfile string) (
	font.GlyphSource, error) {
	//
	if src, ok := fr.Source(texname); ok {
		tracer().Debugf("registry found font %s", texname)
		return src, nil
	}
	if glyphfile == "" {
		return nil, core.Error(core.EINVALID, "no glyph file for font %s", texname)
	}
	kind := resources.Type1
	if isOpenTypeName(glyphfile) {
		kind = resources.OpenType
	}
	path, err := resources.ResolveFontFile(conf, glyphfile, kind).PathContext(ctx)
	if err != nil {
		return nil, err
	}
	src, err := font.LoadGlyphFile(path)
	if err != nil {
		return nil, err
	}
	if encfile != "" {
		enc, err := fr.loadEncoding(ctx, conf, encfile)
		if err != nil {
			return nil, err
		}
		src = font.Reencode(src, enc)
	}
	fr.StoreSource(texname, src)
	src, _ = fr.Source(texname) // another goroutine may have been faster
	return src, nil
}

func (fr *Registry) loadEncoding(ctx context.Context, conf schuko.Configuration, encfile string) (
	*font.Encoding, error) {
	//
	key := font.NormalizeFontname(encfile)
	fr.Lock()
	enc, ok := fr.encodings[key]
	fr.Unlock()
	if ok {
		return enc, nil
	}
	path, err := resources.ResolveFontFile(conf, encfile, resources.Encoding).PathContext(ctx)
	if err != nil {
		return nil, err
	}
	if enc, err = font.LoadEncoding(path); err != nil {
		return nil, err
	}
	fr.Lock()
	fr.encodings[key] = enc
	fr.Unlock()
	return enc, nil
}

// Names returns the normalized names of all registered fonts.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, len(fr.sources))
	for k := range fr.sources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LogFontList is a helper function to dump the list of known fonts in a
// registry to the trace-file (log-level Debug).
func (fr *Registry) LogFontList() {
	tracer().Debugf("--- registered fonts ---")
	for _, k := range fr.Names() {
		src, _ := fr.Source(k)
		tracer().Debugf("font [%s] = %v", k, src.Name())
	}
	tracer().Debugf("------------------------")
}

func isOpenTypeName(fname string) bool {
	fname = strings.ToLower(fname)
	for _, x := range resources.OpenType.Extensions() {
		if strings.HasSuffix(fname, x) {
			return true
		}
	}
	return false
}
