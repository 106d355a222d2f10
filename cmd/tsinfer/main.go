// Command tsinfer drives the tensor-type-inference engine from the
// command line: it reads a constraint script, runs it through the
// unifier, and prints the resulting substitution and diagnostics, or
// drops into an interactive REPL over the same engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/tensorscript/tsinfer/internal/catalog"
	"github.com/tensorscript/tsinfer/internal/repl"
	"github.com/tensorscript/tsinfer/internal/script"
	"github.com/tensorscript/tsinfer/internal/types"
)

var (
	// Set by ldflags during build.
	Version = "dev"
	Commit  = "unknown"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		catalogFlag = flag.String("catalog", "", "path to a YAML operator-catalog overlay")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "unify":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			fmt.Println("Usage: tsinfer unify <constraints.yaml>")
			os.Exit(1)
		}
		unifyFile(flag.Arg(1), *catalogFlag)

	case "repl":
		repl.New(Version).Start(os.Stdin, os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), command)
		printHelp()
		os.Exit(1)
	}
}

func buildCatalog(overlayPath string) (types.Catalog, error) {
	builtin := catalog.NewBuiltinCatalog()
	if overlayPath == "" {
		return builtin, nil
	}
	overlay, err := catalog.LoadYAMLCatalog(overlayPath)
	if err != nil {
		return nil, err
	}
	return catalog.Chain{overlay, builtin}, nil
}

func unifyFile(path, catalogPath string) {
	cat, err := buildCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	env := types.NewTypeEnv(cat)
	doc, err := script.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	cs, err := doc.Constraints(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	u := types.NewUnifier()
	sub := u.Unify(cs, env)

	for _, d := range u.Diagnostics() {
		fmt.Printf("%s: %s\n", red(string(d.Kind)), d.Message)
	}
	if len(u.Diagnostics()) == 0 {
		fmt.Println(green("ok"))
	}
	ids := make([]types.TypeID, 0, len(sub))
	for id := range sub {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("'%d -> %s\n", id, sub[id].String())
	}
	if len(u.Diagnostics()) > 0 {
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("tsinfer %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("tsinfer - tensor shape / module type inference"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tsinfer <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  unify <file>   run the constraints in a YAML script through the unifier")
	fmt.Println("  repl           start an interactive constraint REPL")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
