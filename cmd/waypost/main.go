package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/modfile"

	"github.com/waypost/waypost/internal/diagnostics"
	"github.com/waypost/waypost/internal/manifest"
)

func main() {
	var (
		moduleFlag     = flag.String("module", "", "Module name shown in the header (defaults to go.mod module)")
		classNamesFlag = flag.Bool("class-names", false, "Derive prefix segments from controller type names instead of file names")
		allFlag        = flag.Bool("all-default", false, "Handlers without declared verbs serve every verb")
		hiddenFlag     = flag.Bool("hidden-default", false, "Handlers without declared verbs are excluded")
		verboseFlag    = flag.Bool("verbose", false, "Show per-controller detail")
		quietFlag      = flag.Bool("quiet", false, "Only show errors")
		helpFlag       = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Waypost Route Manifest\n")
		fmt.Fprintf(os.Stderr, "Statically scans route directories and prints the route table the build would\n")
		fmt.Fprintf(os.Stderr, "produce, failing when two handlers would claim the same route.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more route root directories to scan\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./routes                       # Print the predicted route table\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --class-names ./routes ./api   # Scan multiple roots\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --quiet ./routes               # Conflict check only\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var console *diagnostics.Console
	switch {
	case *quietFlag:
		console = diagnostics.NewQuiet()
	case *verboseFlag:
		console = diagnostics.New(diagnostics.LevelVerbose)
	default:
		console = diagnostics.New(diagnostics.LevelInfo)
	}

	module := *moduleFlag
	if module == "" {
		module = modulePath()
	}
	if module != "" {
		console.Section(fmt.Sprintf("Route manifest for %s", module))
	} else {
		console.Section("Route manifest")
	}

	result, err := manifest.Scan(args, manifest.Options{
		UseClassNamesAsRoutes:           *classNamesFlag,
		AllMethodsRoutesAllByDefault:    *allFlag,
		AllMethodsRoutesHiddenByDefault: *hiddenFlag,
	})
	if err != nil {
		console.Error("%v", err)
		os.Exit(1)
	}

	routes := result.Routes
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].File != routes[j].File {
			return routes[i].File < routes[j].File
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Verb < routes[j].Verb
	})
	for _, r := range routes {
		console.Route(r.Verb, r.Path, r.File)
		if *verboseFlag {
			console.Verbose("           %s.%s", r.Controller, r.Handler)
		}
	}

	console.Success("%d route(s) across %d controller(s), no conflicts",
		len(routes), result.Controllers)
}

// modulePath reads the module path from the nearest go.mod, walking upward
// from the working directory.
func modulePath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return modfile.ModulePath(data)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
