package htf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/htfgen/core"
)

// KnownEncodings maps TeX font encodings to the htf tables distributed with
// TeX4ht, which serve as prototypes for fonts in that encoding.
var KnownEncodings = map[string]string{
	"t1":  "lm-ec",
	"ts1": "tcrm",
	"ot1": "lm-rep-cmrm",
	"ot2": "wncyr",
	"oms": "cmsy",
	"oml": "cmmi",
	"omx": "cmex",
	"t2a": "larm",
	"t2b": "lbrm",
	"t2c": "lcrm",
	"x2":  "larm",
	"lgr": "grmn",
}

// KnownTarget returns the prototype table for a TeX font name which carries a
// known encoding, like 'DroidSerif-Bold-t1' or 't1-stixgeneral'. Name
// components separated by '-' are checked first, then the longest encoding
// name contained anywhere in the font name wins.
func KnownTarget(fontname string) (string, bool) {
	name := strings.ToLower(fontname)
	for _, part := range strings.Split(name, "-") {
		if target, ok := KnownEncodings[part]; ok {
			return target, true
		}
	}
	match := ""
	for enc := range KnownEncodings {
		if strings.Contains(name, enc) && len(enc) > len(match) {
			match = enc
		}
	}
	if match == "" {
		return "", false
	}
	return KnownEncodings[match], true
}

// Classifier derives CSS declarations from the name of a font variant.
type Classifier func(variant string) []*css.Declaration

func decl(property, value string) *css.Declaration {
	return &css.Declaration{Property: property, Value: value}
}

// DroidRules classifies variants by the naming scheme of the Droid fonts, e.g.
// 'DroidSansMono-Bold-t1'.
func DroidRules(variant string) []*css.Declaration {
	var decls []*css.Declaration
	// italic and slanted are mutually exclusive
	if strings.Contains(variant, "Italic") {
		decls = append(decls, decl("font-style", "italic"))
	} else if strings.Contains(variant, "Slanted") {
		decls = append(decls, decl("font-style", "oblique"))
	}
	if strings.Contains(variant, "SmallCaps") {
		decls = append(decls, decl("font-variant", "small-caps"))
	}
	if strings.Contains(variant, "Bold") {
		decls = append(decls, decl("font-weight", "bold"))
	}
	if strings.Contains(variant, "Mono") {
		decls = append(decls, decl("font-family", "monospace"))
	} else if strings.Contains(variant, "Sans") {
		decls = append(decls, decl("font-family", "sans-serif"))
	}
	return decls
}

// StixRules classifies variants by the naming scheme of the STIX fonts, e.g.
// 't1-stixgeneral-bold' or 'stix-mathbbit'. Blackboard bold is treated as bold.
func StixRules(variant string) []*css.Declaration {
	var decls []*css.Declaration
	if strings.Contains(variant, "it") {
		decls = append(decls, decl("font-style", "italic"))
	}
	if strings.Contains(variant, "generalsc") {
		decls = append(decls, decl("font-variant", "small-caps"))
	}
	if strings.Contains(variant, "bold") || strings.Contains(variant, "bb") {
		decls = append(decls, decl("font-weight", "bold"))
	}
	if strings.Contains(variant, "sf") {
		decls = append(decls, decl("font-family", "sans-serif"))
	}
	if strings.Contains(variant, "scr") || strings.Contains(variant, "cal") {
		decls = append(decls, decl("font-family", "cursive"))
	}
	return decls
}

// RuleSet returns a classifier by name: "droid" or "stix".
func RuleSet(name string) (Classifier, error) {
	switch strings.ToLower(name) {
	case "droid":
		return DroidRules, nil
	case "stix":
		return StixRules, nil
	case "", "none":
		return func(string) []*css.Declaration { return nil }, nil
	}
	return nil, core.Error(core.EINVALID, "unknown CSS rule set %q", name)
}

// WithExtras extends a classifier. extras maps substrings of variant names to
// CSS declaration blocks like "letter-spacing: 0.1em; color: gray".
func WithExtras(cl Classifier, extras map[string]string) (Classifier, error) {
	type extra struct {
		pattern string
		decls   []*css.Declaration
	}
	var xs []extra
	for pattern, text := range extras {
		decls, err := parser.ParseDeclarations(text)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "cannot parse CSS for %q", pattern)
		}
		xs = append(xs, extra{pattern, decls})
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].pattern < xs[j].pattern })
	return func(variant string) []*css.Declaration {
		decls := cl(variant)
		for _, x := range xs {
			if strings.Contains(variant, x.pattern) {
				decls = append(decls, x.decls...)
			}
		}
		return decls
	}, nil
}

// FormatCSS writes declarations in the format of htfcss lines.
func FormatCSS(decls []*css.Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// Alias is an htf file which refers to the table of another font and/or
// declares CSS properties for variants of a font.
type Alias struct {
	Base     string     // name of the htf file, without extension
	Target   string     // table to use, or empty
	Variants []string   // TeX font names sharing the table
	CSS      Classifier // CSS for variants; may be nil
}

// WriteTo writes the alias lines. Variants are written in sorted order, each
// at most once, and only if they have CSS declarations.
func (a Alias) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	if a.Target != "" {
		k, _ := fmt.Fprintf(bw, ".%s\n", a.Target)
		n += int64(k)
	}
	variants := treemap.NewWithStringComparator()
	for _, v := range a.Variants {
		if a.CSS == nil {
			continue
		}
		if decls := a.CSS(v); len(decls) > 0 {
			variants.Put(v, FormatCSS(decls))
		}
	}
	it := variants.Iterator()
	for it.Next() {
		k, _ := fmt.Fprintf(bw, "htfcss: %s %s\n", it.Key(), it.Value())
		n += int64(k)
	}
	if err := bw.Flush(); err != nil {
		return n, core.WrapError(err, core.EINTERNAL, "cannot write alias %s", a.Base)
	}
	tracer().Debugf("alias %s -> %q with %d CSS variants", a.Base, a.Target, variants.Size())
	return n, nil
}
