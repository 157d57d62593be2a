/*
Command vfcli is an interactive inspector for TeX virtual fonts.

It loads a VF file and lets the user explore the real fonts it refers to and
the DVI programs of its characters:

	vfcli -vf ecrm1000.vf
	vf > fonts
	vf > char 0x41
	vf > ops `Ä

Commands may be abbreviated to any unique prefix. Enter 'help' for a list of
commands.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	vfname := flag.String("vf", "", "Virtual font to load")
	texmf := flag.String("texmf", os.Getenv("TEXMF"), "List of TeX trees to search for fonts")
	kpse := flag.String("kpsewhich", "", "Absolute path of the kpsewhich binary")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.htfgen.fonts":     *tlevel,
		"trace.htfgen.resources": *tlevel,
		"app-key":                "htfgen",
		"texmf":                  *texmf,
		"kpsewhich":              *kpse,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the virtual font CLI")

	// set up REPL
	repl, err := readline.New("vf > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := NewIntp(conf)
	intp.repl = repl
	if *vfname != "" {
		if err := intp.load(*vfname); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(4)
		}
	}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}
