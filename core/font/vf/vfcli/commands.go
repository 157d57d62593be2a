package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/derekparker/trie"
	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font/vf"
	"github.com/npillmayer/htfgen/core/locate/resources"
	"github.com/npillmayer/schuko"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	conf     schuko.Configuration
	repl     *readline.Instance
	font     *vf.Font
	fontname string
	commands *trie.Trie
	printf   func(format string, args ...interface{})
}

// NewIntp creates an interpreter without a font loaded. Output goes to the
// terminal.
func NewIntp(conf schuko.Configuration) *Intp {
	intp := &Intp{
		conf:     conf,
		commands: trie.New(),
		printf:   pterm.Printfln,
	}
	for _, cmd := range commands {
		intp.commands.Add(cmd.name, cmd)
	}
	return intp
}

type command struct {
	name  string
	usage string
	needs bool // needs a font loaded
	run   func(intp *Intp, args []string) (err error, quit bool)
}

var commands []*command

func init() {
	commands = []*command{
		{"load", "load <file>      load a virtual font", false, (*Intp).cmdLoad},
		{"fonts", "fonts            list the real fonts", true, (*Intp).cmdFonts},
		{"char", "char <code>      show the glyphs of a character", true, (*Intp).cmdChar},
		{"chars", "chars            list all characters", true, (*Intp).cmdChars},
		{"ops", "ops <code>       show the DVI program of a character", true, (*Intp).cmdOps},
		{"help", "help             this message", false, (*Intp).cmdHelp},
		{"quit", "quit             leave the CLI", false, (*Intp).cmdQuit},
	}
}

// lookup finds a command by name or by a unique prefix of its name.
func (intp *Intp) lookup(word string) (*command, error) {
	word = strings.ToLower(word)
	if node, ok := intp.commands.Find(word); ok {
		return node.Meta().(*command), nil
	}
	candidates := intp.commands.PrefixSearch(word)
	switch len(candidates) {
	case 0:
		return nil, core.Error(core.EINVALID, "unknown command %q, try 'help'", word)
	case 1:
		node, _ := intp.commands.Find(candidates[0])
		return node.Meta().(*command), nil
	}
	sort.Strings(candidates)
	return nil, core.Error(core.EINVALID, "%q is ambiguous: %s", word, strings.Join(candidates, ", "))
}

func (intp *Intp) execute(line string) (error, bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, false
	}
	cmd, err := intp.lookup(args[0])
	if err != nil {
		return err, false
	}
	tracer().Debugf("command %s %v", cmd.name, args[1:])
	if cmd.needs && intp.font == nil {
		return core.Error(core.EINVALID, "no virtual font loaded, use 'load <file>'"), false
	}
	return cmd.run(intp, args[1:])
}

func (intp *Intp) cmdLoad(args []string) (error, bool) {
	if len(args) != 1 {
		return core.Error(core.EINVALID, "usage: load <file>"), false
	}
	return intp.load(args[0]), false
}

// load reads a VF file, either from a path or located in the TeX trees.
func (intp *Intp) load(name string) error {
	path, err := resources.ResolveFontFile(intp.conf, name, resources.VF).Path()
	if err != nil {
		return err
	}
	f, err := vf.LoadFile(path)
	if err != nil {
		return err
	}
	intp.font, intp.fontname = f, vf.FontName(path)
	intp.printf("%s: %d characters from %d fonts, design size %s",
		intp.fontname, len(f.Chars), len(f.Fonts), f.DesignSize)
	if f.Comment != "" {
		intp.printf("comment: %s", f.Comment)
	}
	return nil
}

func (intp *Intp) cmdFonts(args []string) (error, bool) {
	for _, n := range intp.font.FontNumbers() {
		ref := intp.font.Fonts[n]
		def := ""
		if n == intp.font.DefaultFont {
			def = " (default)"
		}
		intp.printf("%3d  %-28s scale %s, design size %s, checksum %08x%s",
			n, ref.Area+ref.Name, ref.Scale, ref.DesignSize, ref.Checksum, def)
	}
	return nil, false
}

func (intp *Intp) cmdChar(args []string) (error, bool) {
	code, err := intp.codeArg(args)
	if err != nil {
		return err, false
	}
	glyphs := intp.font.Chars[code]
	if len(glyphs) == 0 {
		intp.printf("%s places no glyphs", charLabel(code))
		return nil, false
	}
	intp.printf("%s, width %s:", charLabel(code), intp.font.Packets[code].TFMWidth)
	for _, g := range glyphs {
		intp.printf("     %s", g)
	}
	return nil, false
}

func (intp *Intp) cmdChars(args []string) (error, bool) {
	for _, code := range intp.font.Chars.Codes() {
		glyphs := intp.font.Chars[code]
		names := make([]string, len(glyphs))
		for i, g := range glyphs {
			names[i] = g.String()
		}
		intp.printf("%s  %s", charLabel(code), strings.Join(names, " "))
	}
	return nil, false
}

func (intp *Intp) cmdOps(args []string) (error, bool) {
	code, err := intp.codeArg(args)
	if err != nil {
		return err, false
	}
	packet := intp.font.Packets[code]
	intp.printf("%s at offset %d", packet, packet.Offset())
	for _, op := range packet.Body {
		intp.printf("%8d  %s", op.Offset(), op)
	}
	return nil, false
}

func (intp *Intp) cmdHelp(args []string) (error, bool) {
	pterm.Info.Println("Commands may be abbreviated")
	for _, cmd := range commands {
		intp.printf("  %s", cmd.usage)
	}
	intp.printf("Codes are written as 65, 0x41, '101 (octal), \"41 (hex), `A or A")
	return nil, false
}

func (intp *Intp) cmdQuit(args []string) (error, bool) {
	return nil, true
}

// codeArg reads a character code which must be defined by the current font.
func (intp *Intp) codeArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, core.Error(core.EINVALID, "expecting a character code")
	}
	code, err := parseCode(args[0])
	if err != nil {
		return 0, err
	}
	if _, ok := intp.font.Packets[code]; !ok {
		return 0, core.Error(core.EMISSING, "%s not defined by %s", charLabel(code), intp.fontname)
	}
	return code, nil
}

// parseCode accepts decimal and 0x-prefixed numbers, TeX notation for octal
// ('101), hex ("41) and characters (`A), and single characters.
func parseCode(s string) (int, error) {
	var n int64
	var err error
	switch {
	case strings.HasPrefix(s, "`"):
		return singleRune(s[1:])
	case strings.HasPrefix(s, "'"):
		n, err = strconv.ParseInt(s[1:], 8, 32)
	case strings.HasPrefix(s, "\""):
		n, err = strconv.ParseInt(s[1:], 16, 32)
	case s != "" && s[0] >= '0' && s[0] <= '9':
		n, err = strconv.ParseInt(s, 0, 32)
	default:
		return singleRune(s)
	}
	if err != nil || n < 0 {
		return 0, core.Error(core.EINVALID, "not a character code: %q", s)
	}
	return int(n), nil
}

func singleRune(s string) (int, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, core.Error(core.EINVALID, "not a single character: %q", s)
	}
	return int(r), nil
}

func charLabel(code int) string {
	if code > ' ' && code < 0x7f {
		return fmt.Sprintf("char %d (%c)", code, code)
	}
	return fmt.Sprintf("char %d", code)
}
