/*
Xg compiles a context-free grammar description into a deterministic
shift-reduce parser table and a matching jump-threaded C parser source.

Usage:

	xg [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Print the current version and exit.

	-o, --out FILE
		Write the emitted C parser to FILE. Defaults to the grammar file's
		base name with a ".c" extension.

	--config FILE
		Load emitter/generator defaults from a TOML config file. See
		internal/config for the full set of keys; any key a config file
		doesn't mention keeps its built-in default.

	--slr
		Use the SLR(1) lookahead construction instead of the default
		LALR(1) (DeRemer-Pennello) construction.

	--debug-trace
	--no-debug-trace
		Force the emitted parser's #ifndef NDEBUG symbol/production tables
		on or off, overriding the config file.

	--print-table
		Print the resolved ACTION/GOTO table to stdout and exit without
		emitting a parser.

	--print-conflicts
		Print the shift/reduce and reduce/reduce conflict resolution log to
		stdout and exit without emitting a parser.

	--dump-automaton FILE
		Write a rezi-encoded diagnostic snapshot of the finalized LR(0)
		automaton and lookahead table to FILE. Never read back in as
		compiler input (spec.md §6.3).

	--gen-sentences N
		After a successful compile, print N random sentences derived from
		the grammar (spec.md §4.7) instead of (or in addition to) emitting
		a parser.

	--budget N
		Recursion budget for --gen-sentences. Overrides the config file.

	--seed N
		Random seed for --gen-sentences. Overrides the config file; 0 means
		time-seeded.

	--shell
		Start the interactive xg shell instead of compiling a file.

Exit codes: 0 on success, -1 on any failure, per spec.md §6.2.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/xg/internal/config"
	"github.com/dekarrin/xg/internal/report"
	"github.com/dekarrin/xg/internal/version"
	"github.com/dekarrin/xg/sentence"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

const (
	exitSuccess = 0
	exitFailure = -1
)

var (
	flagVersion       = pflag.BoolP("version", "v", false, "print the current version and exit")
	flagOut           = pflag.StringP("out", "o", "", "output C parser file (default: grammar file's base name with .c)")
	flagConfig        = pflag.String("config", "", "TOML config file of emitter/generator defaults")
	flagSLR           = pflag.Bool("slr", false, "use the SLR(1) lookahead construction instead of LALR(1)")
	flagDebugTrace    = pflag.Bool("debug-trace", false, "force-enable the emitted debug symbol/production tables")
	flagNoDebugTrace  = pflag.Bool("no-debug-trace", false, "force-disable the emitted debug symbol/production tables")
	flagPrintTable    = pflag.Bool("print-table", false, "print the ACTION/GOTO table and exit")
	flagPrintConf     = pflag.Bool("print-conflicts", false, "print the conflict resolution log and exit")
	flagDumpAutomaton = pflag.String("dump-automaton", "", "write a diagnostic automaton dump to FILE")
	flagGenSentences  = pflag.Int("gen-sentences", 0, "print N random sentences derived from the grammar")
	flagBudget        = pflag.Int("budget", 0, "recursion budget for --gen-sentences (0: use config default)")
	flagSeed          = pflag.Int64("seed", 0, "random seed for --gen-sentences (0: time-seeded)")
	flagSentenceName  = pflag.Bool("sentence-names", false, "render every --gen-sentences terminal by name instead of by character")
	flagShell         = pflag.Bool("shell", false, "start the interactive xg shell")
	flagVerbose       = pflag.BoolP("verbose", "V", false, "enable debug-level pipeline logging")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()
	initLogging(*flagVerbose)

	if *flagVersion {
		fmt.Printf("xg %s\n", version.Current)
		return exitSuccess
	}

	if *flagShell {
		if err := runShell(); err != nil {
			pterm.Error.Println(err.Error())
			return exitFailure
		}
		return exitSuccess
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: xg [flags] GRAMMAR_FILE")
		return exitFailure
	}
	grammarPath := args[0]

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			pterm.Error.Println("load config: " + err.Error())
			return exitFailure
		}
	}
	if *flagDebugTrace {
		cfg.Emit.DebugTrace = true
	}
	if *flagNoDebugTrace {
		cfg.Emit.DebugTrace = false
	}

	mode := modeLALR1
	if *flagSLR {
		mode = modeSLR1
	}

	res, err := runPipeline(grammarPath, mode)
	if err != nil {
		pterm.Error.Println(err.Error())
		logFatal("pipeline aborted: %v", err)
		return exitFailure
	}

	if *flagPrintTable {
		fmt.Println(report.ActionGotoTable(res.grammar, res.dfa, res.la))
	}
	if *flagPrintConf {
		fmt.Println(report.ConflictLogText(res.grammar, res.log))
	}
	if *flagDumpAutomaton != "" {
		if err := writeDumpFile(res, *flagDumpAutomaton); err != nil {
			pterm.Error.Println(err.Error())
			return exitFailure
		}
	}
	if *flagGenSentences > 0 {
		budget := cfg.Sentence.Budget
		if *flagBudget > 0 {
			budget = *flagBudget
		}
		seed := cfg.Sentence.Seed
		if *flagSeed != 0 {
			seed = *flagSeed
		}
		format := sentence.FormatChar
		if *flagSentenceName {
			format = sentence.FormatName
		}
		if err := generateSentences(res, *flagGenSentences, budget, seed, format); err != nil {
			pterm.Error.Println(err.Error())
			return exitFailure
		}
	}

	if *flagPrintTable || *flagPrintConf {
		// a report-only invocation never emits a parser, matching the
		// generator's read-only diagnostic flags.
		return exitSuccess
	}

	outPath := *flagOut
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(grammarPath), filepath.Ext(grammarPath))
		outPath = base + ".c"
	}
	if err := emitParser(res, outPath, cfg.Emit); err != nil {
		pterm.Error.Println(err.Error())
		return exitFailure
	}

	return exitSuccess
}
