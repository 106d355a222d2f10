// Package repl implements an interactive loop over the unifier: each
// line names one constraint in the catalog's small textual type
// syntax, and the REPL prints the resulting substitution and any
// diagnostics. Grounded on ailang/internal/repl/repl.go's liner +
// fatih/color structure, scoped down to this engine's single-equation
// surface — there is no evaluator or effect system here, those are
// outside spec.md's scope.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/tensorscript/tsinfer/internal/catalog"
	"github.com/tensorscript/tsinfer/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds REPL configuration.
type Config struct {
	Verbose bool
}

// REPL is the Read-Eval-Print Loop over one constraint per line.
type REPL struct {
	config  *Config
	env     *types.TypeEnv
	history []string
	version string
}

// New creates a REPL backed by the built-in operator catalog.
func New(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{
		config:  &Config{},
		env:     types.NewTypeEnv(catalog.NewBuiltinCatalog()),
		version: version,
	}
}

// Start begins the REPL session, reading lines from the terminal through
// liner and writing to out; in is not read.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".tsinfer_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("tsinfer"), bold(r.version))
	fmt.Fprintln(out, dim("Enter one constraint per line, e.g. tsr[3,f] = tsr[b,4]"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":quit", ":history", ":clear", ":reset"} {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("tsinfer> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.handleCommand(input, out)
			continue
		}

		r.processLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) handleCommand(cmd string, out io.Writer) {
	switch cmd {
	case ":help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help     show this message")
		fmt.Fprintln(out, "  :history  show input history")
		fmt.Fprintln(out, "  :clear    clear input history")
		fmt.Fprintln(out, "  :reset    start a fresh environment")
		fmt.Fprintln(out, "  :quit     exit the REPL")
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%s %s\n", dim(fmt.Sprintf("%3d", i+1)), h)
		}
	case ":clear":
		r.history = nil
		fmt.Fprintln(out, dim("history cleared"))
	case ":reset":
		r.env = types.NewTypeEnv(catalog.NewBuiltinCatalog())
		fmt.Fprintln(out, dim("environment reset"))
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", yellow("warning"), cmd)
	}
}

func (r *REPL) processLine(input string, out io.Writer) {
	a, b, err := ParseConstraintLine(r.env, input)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("parse error"), err)
		return
	}

	cs := types.NewConstraints()
	cs.Equals(a, b)
	u := types.NewUnifier()
	sub := u.Unify(cs, r.env)

	for _, d := range u.Diagnostics() {
		fmt.Fprintf(out, "%s: %s\n", red(string(d.Kind)), d.Message)
	}
	if len(u.Diagnostics()) == 0 {
		fmt.Fprintln(out, green("ok"))
	}
	if len(sub) > 0 {
		fmt.Fprintln(out, cyan("substitution:"))
		ids := make([]types.TypeID, 0, len(sub))
		for id := range sub {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(out, "  '%d %s %s\n", id, dim("->"), sub[id].String())
		}
	}
}
