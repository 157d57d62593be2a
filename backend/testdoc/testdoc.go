/*
Package testdoc writes documents for checking generated hint fonts.

WriteLaTeX creates a LaTeX file which typesets all 256 positions of a set of
TeX fonts. Running it through TeX4ht shows whether each character comes out
as intended. WriteHTMLPreview renders hint tables directly to HTML, without
any TeX involved.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package testdoc

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/npillmayer/htfgen/backend/htf"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer writes to trace with key 'htfgen.htf'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.htf")
}

// WriteLaTeX writes a test document for a font family. Every font gets a
// 16×16 table of its character positions. Fonts are written in sorted order.
func WriteLaTeX(w io.Writer, title string, fonts []string) error {
	fonts = append([]string(nil), fonts...)
	sort.Strings(fonts)
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `\documentclass{article}`)
	fmt.Fprintln(bw, `\usepackage[T1]{fontenc}`)
	fmt.Fprintln(bw, `\begin{document}`)
	fmt.Fprintf(bw, "\\section*{%s}\n", texEscape(title))
	for i, f := range fonts {
		fmt.Fprintf(bw, "\n\\subsection*{%s}\n", texEscape(f))
		fmt.Fprintf(bw, "\\font\\testfont%s=%s\n", csname(i), f)
		fmt.Fprintln(bw, `\begin{tabular}{r|*{16}{c}}`)
		fmt.Fprint(bw, " ")
		for col := 0; col < 16; col++ {
			fmt.Fprintf(bw, " & %X", col)
		}
		fmt.Fprintln(bw, ` \\ \hline`)
		for row := 0; row < 16; row++ {
			fmt.Fprintf(bw, "%X0", row)
			for col := 0; col < 16; col++ {
				fmt.Fprintf(bw, ` & {\testfont%s\char%d}`, csname(i), row*16+col)
			}
			fmt.Fprintln(bw, ` \\`)
		}
		fmt.Fprintln(bw, `\end{tabular}`)
	}
	fmt.Fprintln(bw, `\end{document}`)
	if err := bw.Flush(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write test document")
	}
	tracer().Infof("test document %q lists %d fonts", title, len(fonts))
	return nil
}

// csname creates a letters-only suffix for control sequence names.
func csname(n int) string {
	s := ""
	for {
		s = string(rune('a'+n%26)) + s
		n /= 26
		if n == 0 {
			return s
		}
		n--
	}
}

var texSpecials = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`_`, `\_`, `#`, `\#`, `$`, `\$`, `%`, `\%`, `&`, `\&`,
	`{`, `\{`, `}`, `\}`, `~`, `\textasciitilde{}`, `^`, `\textasciicircum{}`,
)

func texEscape(s string) string {
	return texSpecials.Replace(s)
}

// WriteHTMLPreview renders hint tables as an HTML page. Each table is shown
// with one row per code position: code, text, class and glyph name.
// Pictorial entries are marked with CSS class 'pictorial'.
func WriteHTMLPreview(w io.Writer, title string, tables []*htf.Table) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	doc.AppendChild(root)
	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(withText(element(atom.Title), title))
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), title))
	for _, t := range tables {
		if t == nil || t.IsEmpty() {
			continue
		}
		body.AppendChild(withText(element(atom.H2), t.Name))
		body.AppendChild(tableNode(t))
	}
	if err := html.Render(w, doc); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot render preview")
	}
	return nil
}

func tableNode(t *htf.Table) *html.Node {
	table := element(atom.Table)
	table.Attr = []html.Attribute{{Key: "id", Val: t.Name}}
	hdr := element(atom.Tr)
	for _, h := range []string{"code", "text", "class", "glyph"} {
		hdr.AppendChild(withText(element(atom.Th), h))
	}
	table.AppendChild(hdr)
	for code := t.First; code <= t.Last; code++ {
		e := t.Entry(code)
		if e.IsEmpty() {
			continue
		}
		tr := element(atom.Tr)
		if e.Class != "" {
			tr.Attr = []html.Attribute{{Key: "class", Val: "pictorial"}}
		}
		tr.AppendChild(withText(element(atom.Td), fmt.Sprintf("%d", code)))
		// entries hold character references; the renderer escapes text again
		tr.AppendChild(withText(element(atom.Td), html.UnescapeString(e.Text)))
		tr.AppendChild(withText(element(atom.Td), e.Class))
		tr.AppendChild(withText(element(atom.Td), e.Comment))
		table.AppendChild(tr)
	}
	return table
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func withText(n *html.Node, text string) *html.Node {
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
