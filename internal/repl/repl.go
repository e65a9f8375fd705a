// Package repl implements the interactive prompt, the Go port's stand-in
// for the original implementation's "-e"/"-i" command-line modes (see
// SPEC_FULL.md's supplemented-features section): instead of a flag that
// feeds one expression from argv, a loop reads chunks of source from stdin
// and runs each one as its own module, sharing one interpreter's scope so
// names declared on one line stay bound on the next.
package repl

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/exin-lang/exin/internal/builtins"
	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/module"
)

// Start runs the read-eval-print loop until stdin closes or "exit" is typed.
// A chunk is one or more lines terminated by a blank line, so an indented
// block (def/if/while/for) can be typed across several lines before being
// handed to the interpreter as one complete module.
func Start(cfg config.Config) {
	// Piped input (a script fed on stdin, or a test harness) gets no prompt
	// decoration, the same check the teacher's own CLI uses before deciding
	// whether to print its interactive banner.
	interactive := isatty.IsTerminal(os.Stdin.Fd())

	fmt.Println("exin REPL — type 'exit' to quit, blank line to run a chunk")

	loader := module.NewLoader()
	it := interp.New(cfg, loader, loader.LoadSource("<repl>", ""))
	builtins.RegisterAll(it)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		lines, ok := readChunk(scanner, interactive)
		if !ok {
			return
		}
		if len(lines) == 0 {
			continue
		}

		// Each chunk gets its own unique module name so the loader's cache
		// never collides two chunks with the same key, and so a traceback
		// into an older chunk's function body (held alive via a def's saved
		// Position) still names a distinct module instead of "<repl>".
		name := "<repl:" + uuid.NewString() + ">"
		m := loader.LoadSource(name, strings.Join(lines, "\n"))
		if err := it.LoadModule(m); err != nil {
			report(err)
			continue
		}
		if _, err := it.RunBody(); err != nil {
			report(err)
		}
	}
}

// readChunk reads lines until a blank line or EOF, returning ok=false only
// when stdin has closed with nothing left to run.
func readChunk(scanner *bufio.Scanner, interactive bool) ([]string, bool) {
	var lines []string
	prompt := ">>> "
	for {
		if interactive {
			fmt.Print(prompt)
		}
		if !scanner.Scan() {
			return lines, len(lines) > 0
		}
		line := scanner.Text()
		if len(lines) == 0 && strings.TrimSpace(line) == "exit" {
			return nil, false
		}
		if line == "" {
			return lines, true
		}
		lines = append(lines, line)
		prompt = "... "
	}
}

func report(err error) {
	if re, ok := err.(*errors.RuntimeError); ok {
		fmt.Fprintln(os.Stderr, re.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
