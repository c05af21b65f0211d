// Command typeck is the CLI entry point for the checker core: it runs the
// regression corpus under internal/fixtures and disassembles hand-written
// TypeCode streams for inspection, using a flag-based command dispatch.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/natebuckareff/typeck/internal/fixtures"
	"github.com/natebuckareff/typeck/internal/repl"
)

var (
	Version = "dev"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("typeck %s\n", bold(Version))
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch flag.Arg(0) {
	case "scenarios":
		path := "testdata/scenarios.yaml"
		if flag.NArg() >= 2 {
			path = flag.Arg(1)
		}
		runScenarios(path)

	case "disasm":
		repl.New(Version).Start(os.Stdin, os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("typeck - a static type checker core"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  typeck <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s [file]   Run the YAML-backed scenario corpus\n", cyan("scenarios"))
	fmt.Printf("  %s          Start the interactive disassembler shell\n", cyan("disasm"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
}

func runScenarios(path string) {
	scenarios, err := fixtures.LoadScenarios(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	failures := 0
	for _, s := range scenarios {
		if err := fixtures.Run(s); err != nil {
			failures++
			fmt.Printf("%s %s: %v\n", red("✗"), s.ID, err)
			continue
		}
		fmt.Printf("%s %s\n", green("✓"), s.ID)
	}

	fmt.Println()
	if failures > 0 {
		fmt.Printf("%s %d/%d scenarios failed\n", red("Error"), failures, len(scenarios))
		os.Exit(1)
	}
	fmt.Printf("%s all %d scenarios passed\n", green("✓"), len(scenarios))
}
