package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/htfgen/core/font/fontregistry"
	"github.com/npillmayer/htfgen/engine/batch"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'htfgen.batch'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.batch")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	texmf := flag.String("texmf", os.Getenv("TEXMF"), "List of TeX trees to search for fonts")
	kpse := flag.String("kpsewhich", "", "Absolute path of the kpsewhich binary")
	workers := flag.Int("workers", 0, "Number of virtual fonts to resolve concurrently")
	outdir := flag.String("out", "", "Output directory, overrides the recipe")
	force := flag.Bool("force", false, "Overwrite existing htf files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] recipe.toml\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.htfgen.batch":     *tlevel,
		"trace.htfgen.fonts":     *tlevel,
		"trace.htfgen.htf":       *tlevel,
		"trace.htfgen.resources": *tlevel,
		"app-key":                "htfgen",
		"texmf":                  *texmf,
		"kpsewhich":              *kpse,
		"outdir":                 *outdir,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	recipe, err := batch.LoadRecipe(flag.Arg(0))
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	if *workers > 0 {
		recipe.Workers = *workers
	}
	recipe.Overwrite = recipe.Overwrite || *force
	pterm.Info.Printfln("Generating hint fonts for %s", recipe.Family)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := batch.RunWith(ctx, conf, recipe, fontregistry.GlobalRegistry())
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	for _, f := range result.Files {
		pterm.Printfln("wrote %s", f)
	}
	if len(result.Skipped) > 0 {
		pterm.Info.Printfln("%d existing files kept, use -force to replace them", len(result.Skipped))
	}
	pterm.Info.Printfln("%d tables generated", len(result.Tables))
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
