package vf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/dimen"
	"github.com/npillmayer/htfgen/core/font/dvi"
)

// Glyph is a character of a real font, placed by a virtual character.
type Glyph struct {
	Code int    // character code in the real font
	Font string // TeX name of the real font
}

func (g Glyph) String() string {
	return fmt.Sprintf("%s/%d", g.Font, g.Code)
}

// Resolution maps virtual character codes to the real glyphs they place,
// in program order. Characters with an empty program map to an empty list.
type Resolution map[int][]Glyph

// Codes returns the virtual character codes of r in ascending order.
func (r Resolution) Codes() []int {
	codes := make([]int, 0, len(r))
	for c := range r {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Fonts returns the names of all real fonts referenced by r, sorted.
func (r Resolution) Fonts() []string {
	seen := make(map[string]bool)
	var names []string
	for _, glyphs := range r {
		for _, g := range glyphs {
			if !seen[g.Font] {
				seen[g.Font] = true
				names = append(names, g.Font)
			}
		}
	}
	sort.Strings(names)
	return names
}

// FontRef is a real font, as defined by a fnt_def command of a VF file.
type FontRef struct {
	Num        int
	Name       string
	Area       string
	Checksum   uint32
	Scale      dimen.FixWord
	DesignSize dimen.FixWord
}

// Font is the result of interpreting a VF file.
type Font struct {
	Comment     string
	Checksum    uint32
	DesignSize  dimen.FixWord
	Fonts       map[int]FontRef // real fonts by font number
	DefaultFont int             // number of the first font defined
	Chars       Resolution
	Packets     map[int]dvi.CharacterDefinition // character packets by code
	hasDefault  bool
}

// HasDefaultFont is true if the file defines at least one real font.
func (f *Font) HasDefaultFont() bool {
	return f.hasDefault
}

// FontNumbers returns the font numbers in use, ascending.
func (f *Font) FontNumbers() []int {
	nums := make([]int, 0, len(f.Fonts))
	for n := range f.Fonts {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Parse decodes and interprets the contents of a VF file.
func Parse(data []byte) (*Font, error) {
	return Interpret(dvi.NewDecoder(data))
}

// Resolve maps every virtual character of a VF file to the real glyphs it
// places. Empty input results in an empty resolution.
func Resolve(data []byte) (Resolution, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Chars, nil
}

// LoadFile reads and interprets a VF file.
func LoadFile(path string) (*Font, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		tracer().Errorf("VF file %s: %v", filepath.Base(path), err)
		return nil, err
	}
	tracer().Infof("VF file %s: %d characters from %d fonts", filepath.Base(path),
		len(f.Chars), len(f.Fonts))
	return f, nil
}

// ResolveFile is Resolve for the VF file at path.
func ResolveFile(path string) (Resolution, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Chars, nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.WrapError(err, core.EMISSING, "VF file not found: %s", path)
		}
		return nil, core.WrapError(err, core.EINVALID, "cannot open VF file %s", path)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot read VF file %s", path)
	}
	return data, nil
}

// FontName strips directory and extension from a path, yielding the TeX name
// of a font file.
func FontName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
