// Command kspaint creates, inspects and edits KSP layered image files.
//
// Usage:
//
//	kspaint [-config file] [-v] <command> [flags] [args]
//
// Commands:
//
//	new     create a document with one white layer
//	info    print the header of a KSP file
//	import  convert an image into a KSP document
//	export  write the composite of a document as PNG
//	thumb   write a downscaled PNG preview
//	stroke  paint a brush stroke through a list of points
//	merge   merge the visible layers of a document
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/config"
	"github.com/gogpu/painter/document"
)

type command struct {
	name  string
	usage string
	run   func(app *app, args []string) error
}

var commands = []command{
	{"new", "new [-name n] [-width w] [-height h] [-format ksp|png]", runNew},
	{"info", "info file.ksp", runInfo},
	{"import", "import [-width w] [-height h] [-o out.ksp] image", runImport},
	{"export", "export [-o out.png] file", runExport},
	{"thumb", "thumb [-size px] [-o out.png] file", runThumb},
	{"stroke", "stroke -points \"x,y;x,y;...\" [-size px] [-color #rrggbb] [-spline] file", runStroke},
	{"merge", "merge file", runMerge},
}

type app struct {
	cfg config.Config
	mgr *document.Manager
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("kspaint: ")

	var (
		configPath = flag.String("config", "", "TOML configuration file")
		verbose    = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		painter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	a, err := newApp(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name == name {
			if err := c.run(a, args); err != nil {
				log.Fatalf("%s: %v", name, err)
			}
			return
		}
	}
	log.Printf("unknown command %q", name)
	usage()
	os.Exit(2)
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	depth, err := cfg.Depth()
	if err != nil {
		return nil, err
	}
	comp, err := cfg.Compression()
	if err != nil {
		return nil, err
	}
	layerOpts, err := cfg.LayerOptions()
	if err != nil {
		return nil, err
	}
	mgr, err := document.NewManager(
		document.WithSaveDir(cfg.Storage.SaveDir),
		document.WithDepth(depth),
		document.WithCompression(comp),
		document.WithLayerOptions(layerOpts...),
	)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, mgr: mgr}, nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "usage: kspaint [-config file] [-v] <command> [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %s\n", c.usage)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "flags:")
	flag.PrintDefaults()
}
