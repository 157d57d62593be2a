package batch

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/htfgen/backend/htf"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/locate/resources"
)

// Recipe describes the hint fonts to generate for a font family.
type Recipe struct {
	Family     string            `toml:"family"`     // name of the family, used for test files
	Map        string            `toml:"map"`        // map file of the family
	Glyphs     string            `toml:"glyphs"`     // default prototype glyph file
	Prototypes map[string]string `toml:"prototypes"` // encoding → prototype glyph file
	CSS        string            `toml:"css"`        // CSS rule set: "droid", "stix" or "none"
	CSSExtra   map[string]string `toml:"css-extra"`  // variant pattern → CSS declarations
	Fonts      []string          `toml:"fonts"`      // TeX fonts not listed in the map file
	VF         []string          `toml:"vf"`         // virtual fonts to compose tables for
	Output     string            `toml:"output"`     // output directory
	Workers    int               `toml:"workers"`    // concurrent VF resolutions
	Overwrite  bool              `toml:"overwrite"`  // replace existing htf files

	// Dir is the directory of the recipe file (set at load time).
	Dir string `toml:"-"`
}

// LoadRecipe parses a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read recipe %s", path)
	}
	r, err := ParseRecipe(string(data))
	if err != nil {
		return nil, err
	}
	if r.Dir, err = filepath.Abs(filepath.Dir(path)); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot resolve path %s", path)
	}
	return r, nil
}

// ParseRecipe decodes a recipe from TOML text.
func ParseRecipe(text string) (*Recipe, error) {
	var r Recipe
	md, err := toml.Decode(text, &r)
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot parse recipe")
	}
	for _, key := range md.Undecoded() {
		tracer().Infof("recipe: unknown key %q", key.String())
	}
	return &r, nil
}

// Validate checks a recipe for completeness.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Family) == "" {
		return core.Error(core.EINVALID, "recipe has no family name")
	}
	if r.Map == "" && len(r.Fonts) == 0 && len(r.VF) == 0 {
		return core.Error(core.EINVALID, "recipe for %s names no fonts", r.Family)
	}
	if _, err := htf.RuleSet(r.CSS); err != nil {
		return err
	}
	if r.Workers < 0 {
		return core.Error(core.EINVALID, "recipe for %s has negative worker count", r.Family)
	}
	return nil
}

func (r *Recipe) classifier() (htf.Classifier, error) {
	cl, err := htf.RuleSet(r.CSS)
	if err != nil {
		return nil, err
	}
	if len(r.CSSExtra) == 0 {
		return cl, nil
	}
	return htf.WithExtras(cl, r.CSSExtra)
}

// prototype returns the glyph file for an encoding file.
func (r *Recipe) prototype(enc string) string {
	if g, ok := r.Prototypes[enc]; ok {
		return g
	}
	if g, ok := r.Prototypes[strings.TrimSuffix(filepath.Base(enc), ".enc")]; ok {
		return g
	}
	return r.Glyphs
}

// path makes a file name relative to the recipe's directory, if a file of
// that name exists there, possibly with one of the extensions of kind. Other
// names are left for the resource search.
func (r *Recipe) path(name string, kind resources.FileKind) string {
	if name == "" || filepath.IsAbs(name) || r.Dir == "" {
		return name
	}
	p := filepath.Join(r.Dir, name)
	for _, x := range append([]string{""}, kind.Extensions()...) {
		if fi, err := os.Stat(p + x); err == nil && !fi.IsDir() {
			return p + x
		}
	}
	return name
}

func (r *Recipe) outputDir() string {
	if r.Output == "" {
		if r.Dir == "" {
			return "."
		}
		return r.Dir
	}
	if filepath.IsAbs(r.Output) || r.Dir == "" {
		return r.Output
	}
	return filepath.Join(r.Dir, r.Output)
}

func (r *Recipe) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.NumCPU()
}
