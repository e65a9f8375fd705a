// Command exin is the external front-end §6 of the specification hands off
// to: argument parsing, module-file loading from disk, and translating a
// RuntimeError (or the module's own top-level return value) into a process
// exit code. None of this lives in internal/interp itself — the engine only
// ever sees a *module.Module handed to it.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/exin-lang/exin/internal/builtins"
	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/module"
	"github.com/exin-lang/exin/internal/repl"
)

const version = "0.1.0"

// BuildDate and GitCommit are overridable at build time via
//
//	-ldflags "-X main.BuildDate=... -X main.GitCommit=..."
var (
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Default()
	var modulePath string

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printUsage(os.Stdout)
			return 0
		case arg == "-v" || arg == "--version":
			printVersion()
			return 0
		case arg == "-t":
			cfg.TabSize = config.Default().TabSize
		case strings.HasPrefix(arg, "-t"):
			n, err := strconv.Atoi(arg[2:])
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "exin: invalid tab size %q\n", arg)
				return int(errors.SystemError)
			}
			cfg.TabSize = n
		case arg == "-d":
			cfg.Trace = config.TraceToken
		case strings.HasPrefix(arg, "-d"):
			n, err := strconv.Atoi(arg[2:])
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "exin: invalid debug mask %q\n", arg)
				return int(errors.SystemError)
			}
			cfg.Trace = n
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "exin: unknown option %q\n", arg)
			printUsage(os.Stderr)
			return int(errors.SystemError)
		default:
			modulePath = arg
		}
	}

	if modulePath == "" {
		repl.Start(cfg)
		return 0
	}

	return runModule(cfg, modulePath)
}

func runModule(cfg config.Config, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exin: cannot read %s: %s\n", path, err)
		return int(errors.SystemError)
	}

	loader := module.NewLoader()
	m := loader.LoadSource(path, string(source))

	it := interp.New(cfg, loader, m)
	builtins.RegisterAll(it)

	code, err := it.Run()
	if err != nil {
		if re, ok := err.(*errors.RuntimeError); ok {
			fmt.Fprintln(os.Stderr, re.Error())
			return re.Exit()
		}
		fmt.Fprintln(os.Stderr, err)
		return int(errors.SystemError)
	}
	return code
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: exin [options] [module]")
	fmt.Fprintln(w, "options:")
	fmt.Fprintln(w, "  -h       print this message and exit")
	fmt.Fprintln(w, "  -v       print version and exit")
	fmt.Fprintln(w, "  -t[N]    set tab size to N (default 4)")
	fmt.Fprintln(w, "  -d[N]    set debug trace bitmask (default 1)")
	fmt.Fprintln(w, "with no module given, starts the interactive REPL")
}

func printVersion() {
	fmt.Printf("exin %s (build %s, commit %s)\n", version, BuildDate, GitCommit)
}
