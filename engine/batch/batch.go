package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/htfgen/backend/htf"
	"github.com/npillmayer/htfgen/backend/testdoc"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font/fontregistry"
	"github.com/npillmayer/htfgen/core/font/psmap"
	"github.com/npillmayer/htfgen/core/font/vf"
	"github.com/npillmayer/htfgen/core/locate/resources"
	"github.com/npillmayer/schuko"
	"golang.org/x/sync/errgroup"
)

// maxAliasDepth limits chains of htf aliases.
const maxAliasDepth = 8

// Result lists what a batch run produced.
type Result struct {
	Tables  map[string]*htf.Table // tables generated or composed, by name
	Files   []string              // files written, sorted
	Skipped []string              // existing files left alone, sorted
}

type batch struct {
	conf     schuko.Configuration
	recipe   *Recipe
	css      htf.Classifier
	out      string
	registry *fontregistry.Registry
	mx       sync.Mutex
	tables   map[string]*htf.Table // tables read from htf files
	result   *Result
}

// Run executes a recipe with a fresh font registry. Files are located with package resources, using
// configuration keys 'texmf' and 'kpsewhich'. Configuration key 'outdir', if
// set, overrides the output directory of the recipe. Virtual fonts are resolved
// concurrently; the first error cancels the remaining work.
func Run(ctx context.Context, conf schuko.Configuration, r *Recipe) (*Result, error) {
	return RunWith(ctx, conf, r, fontregistry.NewRegistry())
}

// RunWith executes a recipe, loading glyph files through reg. Glyph sources
// already present in reg are reused.
func RunWith(ctx context.Context, conf schuko.Configuration, r *Recipe, reg *fontregistry.Registry) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	css, err := r.classifier()
	if err != nil {
		return nil, err
	}
	b := &batch{
		conf:     conf,
		recipe:   r,
		css:      css,
		out:      r.outputDir(),
		registry: reg,
		tables:   make(map[string]*htf.Table),
		result:   &Result{Tables: make(map[string]*htf.Table)},
	}
	if conf != nil && conf.GetString("outdir") != "" {
		b.out = conf.GetString("outdir")
	}
	if err := os.MkdirAll(b.out, 0755); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot create output directory %s", b.out)
	}
	tracer().Infof("generating hint fonts for %s in %s", r.Family, b.out)
	entries, err := b.loadMap(ctx)
	if err != nil {
		return nil, err
	}
	groups := psmap.GroupByEncoding(entries)
	covered := make(map[string]bool)
	for _, enc := range psmap.Encodings(groups) {
		if err := b.encodingGroup(ctx, enc, groups[enc]); err != nil {
			return nil, err
		}
		for _, f := range groups[enc] {
			covered[f] = true
		}
	}
	fonts := texFonts(entries, r.Fonts)
	for _, f := range fonts {
		if covered[f] {
			continue
		}
		if err := b.standardFont(f); err != nil {
			return nil, err
		}
	}
	if err := b.virtualFonts(ctx); err != nil {
		return nil, err
	}
	if err := b.testDocuments(append(fonts, r.VF...)); err != nil {
		return nil, err
	}
	sort.Strings(b.result.Files)
	sort.Strings(b.result.Skipped)
	reg.LogFontList()
	return b.result, nil
}

func (b *batch) loadMap(ctx context.Context) ([]psmap.Entry, error) {
	if b.recipe.Map == "" {
		return nil, nil
	}
	mapfile := b.recipe.path(b.recipe.Map, resources.Map)
	path, err := resources.ResolveFontFile(b.conf, mapfile, resources.Map).PathContext(ctx)
	if err != nil {
		return nil, err
	}
	return psmap.Load(path)
}

// texFonts collects the TeX font names of map entries and extra fonts, sorted
// and without duplicates.
func texFonts(entries []psmap.Entry, extra []string) []string {
	seen := make(map[string]bool)
	var fonts []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			fonts = append(fonts, f)
		}
	}
	for _, e := range entries {
		add(e.TeXName)
	}
	for _, f := range extra {
		add(f)
	}
	sort.Strings(fonts)
	return fonts
}

// encodingGroup handles the fonts sharing an encoding file. Standard
// encodings get aliases to TeX4ht's tables, others get a table of their own.
func (b *batch) encodingGroup(ctx context.Context, enc string, variants []string) error {
	encbase := strings.TrimSuffix(filepath.Base(enc), filepath.Ext(enc))
	if target, ok := htf.KnownTarget(encbase); ok {
		tracer().Debugf("encoding %s is standard, aliasing to %s", encbase, target)
		for _, v := range variants {
			if err := b.alias(v, target); err != nil {
				return err
			}
		}
		return nil
	}
	glyphfile := b.recipe.prototype(enc)
	if glyphfile == "" {
		return core.Error(core.EINVALID, "no prototype glyph file for encoding %s", enc)
	}
	name := tableName(glyphfile, encbase, b.recipe.Family)
	glyphpath := b.recipe.path(glyphfile, resources.UnknownKind)
	src, err := b.registry.Load(ctx, b.conf, name, glyphpath, b.recipe.path(enc, resources.Encoding))
	if err != nil {
		return err
	}
	t := htf.FromGlyphSource(name, src)
	if t.IsEmpty() {
		return core.Error(core.EINVALID, "encoding %s selects no glyphs from %s", enc, glyphfile)
	}
	b.store(t)
	css := htf.Alias{Base: name, Variants: variants, CSS: b.css}
	if err := b.writeHTF(name, t, css); err != nil {
		return err
	}
	for _, v := range variants {
		if v == name {
			continue
		}
		if err := b.alias(v, name); err != nil {
			return err
		}
	}
	return nil
}

// tableName derives the name of a table from its prototype glyph file and
// encoding, e.g. 'DroidSerif-Regular.pfb' and 'droid-01' → 'DroidSerif-Regular-01'.
func tableName(glyphfile, encbase, family string) string {
	base := filepath.Base(glyphfile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if family != "" && strings.Contains(encbase, family) {
		return strings.Replace(encbase, family, base, 1)
	}
	return base + "-" + encbase
}

// standardFont creates an alias for a font which is not part of an encoding
// group, if its name tells a standard encoding.
func (b *batch) standardFont(f string) error {
	target, ok := htf.KnownTarget(f)
	if !ok {
		tracer().Infof("font %s has no known encoding, skipping", f)
		return nil
	}
	return b.alias(f, target)
}

func (b *batch) alias(variant, target string) error {
	return b.writeHTF(variant, htf.Alias{
		Base:     variant,
		Target:   target,
		Variants: []string{variant},
		CSS:      b.css,
	})
}

// writeHTF writes parts to an htf file in the output directory.
func (b *batch) writeHTF(name string, parts ...io.WriterTo) error {
	path := filepath.Join(b.out, name+".htf")
	if _, err := os.Stat(path); err == nil && !b.recipe.Overwrite {
		tracer().Infof("didn't overwrite %s", path)
		b.mx.Lock()
		b.result.Skipped = append(b.result.Skipped, path)
		b.mx.Unlock()
		return nil
	}
	file, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot create %s", path)
	}
	defer file.Close()
	for _, p := range parts {
		if _, err := p.WriteTo(file); err != nil {
			return err
		}
	}
	if err := file.Close(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write %s", path)
	}
	tracer().Debugf("wrote %s", path)
	b.mx.Lock()
	b.result.Files = append(b.result.Files, path)
	b.mx.Unlock()
	return nil
}

func (b *batch) store(t *htf.Table) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.result.Tables[t.Name] = t
}

// virtualFonts composes a table for every virtual font of the recipe.
func (b *batch) virtualFonts(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.recipe.workers())
	for _, name := range b.recipe.VF {
		name := name
		g.Go(func() error {
			return b.virtualFont(gctx, name)
		})
	}
	return g.Wait()
}

func (b *batch) virtualFont(ctx context.Context, name string) error {
	path, err := resources.ResolveFontFile(b.conf, b.recipe.path(name, resources.VF), resources.VF).PathContext(ctx)
	if err != nil {
		return err
	}
	res, err := vf.ResolveFile(path)
	if err != nil {
		return core.WrapError(err, core.Code(err), "cannot resolve virtual font %s", name)
	}
	lookup := func(fontname string) (*htf.Table, error) {
		return b.table(ctx, fontname, 0)
	}
	t, err := htf.FromVirtualFont(vf.FontName(path), res, lookup)
	if err != nil {
		return err
	}
	b.store(t)
	return b.writeHTF(t.Name, t)
}

// table finds the table of a real font: tables generated by this run come
// first, then htf files in the output directory, then htf files located by
// the resource search. Aliases are followed.
func (b *batch) table(ctx context.Context, name string, depth int) (*htf.Table, error) {
	if depth > maxAliasDepth {
		return nil, core.Error(core.EINVALID, "htf alias chain too long at %s", name)
	}
	b.mx.Lock()
	t, ok := b.result.Tables[name]
	if !ok {
		t, ok = b.tables[name]
	}
	b.mx.Unlock()
	if ok {
		return t, nil
	}
	path := filepath.Join(b.out, name+".htf")
	if _, err := os.Stat(path); err != nil {
		if path, err = resources.ResolveFontFile(b.conf, name, resources.HTF).PathContext(ctx); err != nil {
			return nil, err
		}
	}
	hf, err := readHintFile(path)
	if err != nil {
		return nil, err
	}
	if hf.Table == nil {
		if hf.Target == "" || hf.Target == name {
			return nil, core.Error(core.EFORMAT, "%s is neither table nor alias", path)
		}
		tracer().Debugf("following alias %s -> %s", name, hf.Target)
		if t, err = b.table(ctx, hf.Target, depth+1); err != nil {
			return nil, err
		}
	} else {
		t = hf.Table
	}
	b.mx.Lock()
	b.tables[name] = t
	b.mx.Unlock()
	return t, nil
}

func readHintFile(path string) (*htf.HintFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open %s", path)
	}
	defer file.Close()
	hf, err := htf.ReadHintFile(file)
	if err != nil {
		return nil, core.WrapError(err, core.Code(err), "cannot read %s", path)
	}
	return hf, nil
}

func (b *batch) testDocuments(fonts []string) error {
	texpath := filepath.Join(b.out, b.recipe.Family+"-test.tex")
	if err := writeFile(texpath, func(w io.Writer) error {
		return testdoc.WriteLaTeX(w, b.recipe.Family, fonts)
	}); err != nil {
		return err
	}
	names := make([]string, 0, len(b.result.Tables))
	for n := range b.result.Tables {
		names = append(names, n)
	}
	sort.Strings(names)
	tables := make([]*htf.Table, len(names))
	for i, n := range names {
		tables[i] = b.result.Tables[n]
	}
	htmlpath := filepath.Join(b.out, b.recipe.Family+"-preview.html")
	if err := writeFile(htmlpath, func(w io.Writer) error {
		return testdoc.WriteHTMLPreview(w, b.recipe.Family, tables)
	}); err != nil {
		return err
	}
	b.result.Files = append(b.result.Files, texpath, htmlpath)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot create %s", path)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write %s", path)
	}
	return nil
}
