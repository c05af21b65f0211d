// Package repl implements a small interactive disassembler shell: type
// hex-encoded instruction words at the prompt, get back the TypeCode
// disassembly. Built around a liner instance, history file, completer, and
// colored prompt, the way a REPL loop for a small checker core should look;
// there is no expression-evaluation pipeline underneath it, since this
// checker core has no runtime to evaluate against.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/natebuckareff/typeck/internal/typecode"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is a disassembler shell: each line of input is a space-separated list
// of 16-bit instruction words (hex, optionally 0x-prefixed), which it
// encodes into a Code and disassembles.
type REPL struct {
	version string
	history []string
}

// New creates a disassembler REPL.
func New(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{version: version}
}

const historyFileName = ".typeck_disasm_history"

// Start runs the read-eval-print loop until EOF or :quit, writing output to
// out. Input lines come from the terminal through liner; in is not read.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("typeck disasm"), bold(r.version))
	fmt.Fprintln(out, dim("Enter instruction words (e.g. \"05 0007\" for Ref 7). :help for help, :quit to exit."))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":help", ":quit", ":history"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("code> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		switch input {
		case ":quit", ":q":
			fmt.Fprintln(out, green("Goodbye!"))
			line.Close()
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case ":help", ":h":
			r.printHelp(out)
			continue
		case ":history":
			for _, h := range r.history {
				fmt.Fprintln(out, h)
			}
			continue
		}

		r.disassemble(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  :help, :h      Show this help")
	fmt.Fprintln(out, "  :quit, :q      Exit")
	fmt.Fprintln(out, "  :history       Show input history")
	fmt.Fprintln(out, "Anything else is parsed as space-separated hex instruction words.")
}

func (r *REPL) disassemble(input string, out io.Writer) {
	words := strings.Fields(input)
	buf := make([]byte, 0, len(words)*2)
	for _, w := range words {
		v, err := strconv.ParseUint(strings.TrimPrefix(w, "0x"), 16, 16)
		if err != nil {
			fmt.Fprintf(out, "%s: %q is not a valid instruction word: %v\n", red("Error"), w, err)
			return
		}
		buf = append(buf, byte(v>>8), byte(v))
	}

	disasm, err := typecode.Disassemble(typecode.Code(buf))
	if disasm != "" {
		fmt.Fprint(out, disasm)
	}
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", yellow("Warning"), err)
	}
}
