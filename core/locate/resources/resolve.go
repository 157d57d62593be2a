package resources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko"
)

// FileKind is the kind of a font related file.
type FileKind int

// Kinds of files we search for
const (
	UnknownKind FileKind = iota
	VF                   // virtual font
	TFM                  // TeX font metrics
	Type1                // Type 1 glyph file, binary or ASCII
	OpenType             // OpenType or TrueType glyph file
	Encoding             // PostScript encoding vector
	Map                  // font map file for dvips/pdftex
	HTF                  // hint font for TeX4ht
)

func (k FileKind) String() string {
	switch k {
	case VF:
		return "virtual font"
	case TFM:
		return "font metrics"
	case Type1:
		return "Type 1 font"
	case OpenType:
		return "OpenType font"
	case Encoding:
		return "encoding"
	case Map:
		return "font map"
	case HTF:
		return "hint font"
	}
	return "resource"
}

// Extensions returns the file extensions for files of kind k, in order of
// preference.
func (k FileKind) Extensions() []string {
	switch k {
	case VF:
		return []string{".vf"}
	case TFM:
		return []string{".tfm"}
	case Type1:
		return []string{".pfb", ".pfa"}
	case OpenType:
		return []string{".otf", ".ttf"}
	case Encoding:
		return []string{".enc"}
	case Map:
		return []string{".map"}
	case HTF:
		return []string{".htf"}
	}
	return []string{""}
}

func (k FileKind) isGlyphFile() bool {
	return k == Type1 || k == OpenType
}

// NotFound returns an application error for a missing resource.
func NotFound(res string, kind FileKind) error {
	e := fmt.Errorf("resource missing: %v", res)
	s := fmt.Sprintf("%s not found: %s", kind, res)
	return core.WrapError(e, core.EMISSING, s)
}

// --- Promises --------------------------------------------------------------

// FilePromise is returned by ResolveFontFile. Path blocks until the file is
// located or the search has failed. A promise may be awaited any number of
// times, also concurrently; every call returns the same result.
type FilePromise interface {
	Path() (string, error)
	PathContext(ctx context.Context) (string, error)
}

type fileLoader struct {
	await func(ctx context.Context) (string, error)
}

func (loader fileLoader) Path() (string, error) {
	return loader.await(context.Background())
}

func (loader fileLoader) PathContext(ctx context.Context) (string, error) {
	return loader.await(ctx)
}

// ResolveFontFile starts searching for a font related file. name may carry
// an extension; if it does not, the extensions of kind are tried.
// Cancelling the context of a waiting PathContext call stops the search.
func ResolveFontFile(conf schuko.Configuration, name string, kind FileKind) FilePromise {
	var path string
	var err error
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		path, err = LocateFontFile(ctx, conf, name, kind)
		close(done)
	}()
	return fileLoader{
		await: func(c context.Context) (string, error) {
			select {
			case <-done:
				return path, err
			default:
			}
			select {
			case <-c.Done():
				cancel()
				return "", c.Err()
			case <-done:
				return path, err
			}
		},
	}
}

// LocateFontFile is the synchronous version of ResolveFontFile.
func LocateFontFile(ctx context.Context, conf schuko.Configuration, name string, kind FileKind) (string, error) {
	if name == "" {
		return "", core.Error(core.EINVALID, "empty %s name", kind)
	}
	candidates := fileNames(name, kind)
	for _, c := range candidates { // name is a path
		if isFile(c) {
			tracer().Debugf("%s found as given: %s", kind, c)
			return c, nil
		}
	}
	if conf != nil {
		if p, ok := searchTeXMF(ctx, conf.GetString("texmf"), candidates); ok {
			tracer().Debugf("%s found in texmf tree: %s", kind, p)
			return p, nil
		}
		if p, ok := kpsewhich(ctx, conf, candidates); ok {
			tracer().Debugf("%s found by kpsewhich: %s", kind, p)
			return p, nil
		}
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if kind.isGlyphFile() {
		for _, c := range candidates {
			if p, err := findfont.Find(filepath.Base(c)); err == nil && p != "" {
				tracer().Debugf("%s is a system font: %s", name, p)
				return p, nil
			}
		}
	}
	tracer().Infof("cannot locate %s %s", kind, name)
	return "", NotFound(name, kind)
}

// fileNames returns the file names to try for name, adding extensions of
// kind if name has none of them.
func fileNames(name string, kind FileKind) []string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, x := range kind.Extensions() {
		if x == ext {
			return []string{name}
		}
	}
	var names []string
	for _, x := range kind.Extensions() {
		names = append(names, name+x)
	}
	return names
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

var errFound = errors.New("found")

// searchTeXMF walks a list of directory trees, separated by the OS specific
// path list separator. The first file with a base name from candidates wins.
func searchTeXMF(ctx context.Context, texmf string, candidates []string) (string, bool) {
	if texmf == "" {
		return "", false
	}
	bases := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		bases[filepath.Base(c)] = true
	}
	for _, root := range filepath.SplitList(texmf) {
		if root == "" {
			continue
		}
		var found string
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !d.IsDir() && bases[d.Name()] {
				found = p
				return errFound
			}
			return nil
		})
		if err == errFound {
			return found, true
		} else if err != nil {
			tracer().Debugf("texmf walk of %s stopped: %v", root, err)
		}
	}
	return "", false
}
